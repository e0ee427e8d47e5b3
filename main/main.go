package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"sync"

	"github.com/phil-mansfield/hpmc"
	"github.com/phil-mansfield/hpmc/comm"
	"github.com/phil-mansfield/hpmc/geom"
	"github.com/phil-mansfield/hpmc/io"
	"github.com/phil-mansfield/hpmc/logger"
	"github.com/phil-mansfield/hpmc/system"
)

type FileGroup struct {
	log, prof, out *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.out != nil {
		err := fg.out.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var run, exampleConfig string
	vars := map[string]*string{
		"Run":           &run,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&run, "Run", "",
		"Configuration file for [Run] mode. Counts the wall violations of "+
			"a particle file and writes the requested log quantities.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. The only accepted argument is 'Run'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Run":
		con, err := io.ReadConfig(run)
		if err != nil {
			log.Fatal(err.Error())
		}

		fg := setupFileGroup(&con.Run)
		defer fg.Close()

		log.Println("Running Run main.")
		if err := runMain(con, fg); err != nil {
			log.Fatal(err.Error())
		}
	case "ExampleConfig":
		switch exampleConfig {
		case "Run":
			fmt.Println(io.ExampleConfigFile)
		default:
			log.Fatalf(
				"'%s' is not a valid configuration type. The only accepted "+
					"type is 'Run'.", exampleConfig,
			)
		}
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but hpmc_cmd "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func setupFileGroup(con *io.RunConfig) *FileGroup {
	fg := &FileGroup{}
	var err error

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if con.LogOutput != "" {
		fg.out, err = os.Create(con.LogOutput)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	return fg
}

// partition is one slab of the simulation box and the walls confining it.
type partition struct {
	pd    *system.ParticleData
	field *hpmc.WallField
}

func runMain(con *io.Config, fg *FileGroup) error {
	box, err := con.Box.Box()
	if err != nil {
		return err
	}
	mc, err := con.Integrator()
	if err != nil {
		return err
	}
	ps, err := io.ReadParticles(con.Run.Particles)
	if err != nil {
		return err
	}
	dev, err := system.ParseDevice(con.Run.Device)
	if err != nil {
		return err
	}

	parts, err := makePartitions(con, box, system.ExecConf{Device: dev}, mc, ps)
	if err != nil {
		return err
	}
	defer closeFields(parts)

	timestep := uint64(con.Run.Timestep)
	counts := make([]uint, len(parts))
	wg := sync.WaitGroup{}
	for i := range parts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			counts[i] = parts[i].field.CountOverlaps(
				timestep, con.Run.EarlyExit,
			)
		}(i)
	}
	wg.Wait()

	f := parts[0].field
	fmt.Printf("%d wall overlaps in %d particles\n", counts[0], len(ps.Types))
	degenerate := 0
	for _, p := range parts {
		degenerate += p.field.DegenerateEvaluations()
	}
	if degenerate > 0 {
		log.Printf("%d overlap evaluations did not converge.", degenerate)
	}

	if qs := con.Run.Quantities(); len(qs) > 0 {
		out := os.Stdout
		if fg.out != nil {
			out = fg.out
		}
		l := logger.New(out)
		l.SetDelimiter(con.Run.Delimiter)
		l.RegisterProvider(f)
		l.SetLoggedQuantities(qs)
		if err := l.WriteHeader(); err != nil {
			return err
		}
		if err := l.Analyze(timestep); err != nil {
			return err
		}
	}

	if con.Run.ValidPlot() {
		dim, _ := con.Run.PlotDim()
		plotWalls(f, parts, dim, con.Run.Plot)
	}
	return nil
}

// makePartitions splits the particles into slabs along x and attaches a
// wall field to each slab.
func makePartitions(
	con *io.Config, box *geom.Box, exec system.ExecConf,
	mc *system.Integrator, ps *io.Particles,
) ([]partition, error) {
	n := con.Run.Partitions
	var world *comm.World
	if n > 1 {
		world = comm.NewWorld(n)
	}

	sws, err := con.SphereWalls()
	if err != nil {
		return nil, err
	}
	cws, err := con.CylinderWalls()
	if err != nil {
		return nil, err
	}
	pws, err := con.PlaneWalls()
	if err != nil {
		return nil, err
	}

	parts := make([]partition, n)
	slabs := make([]io.Particles, n)
	for i, typ := range ps.Types {
		x := box.MinImage(ps.Positions[i])[0]
		slab := int((x/box.Lx() + 0.5) * float64(n))
		if slab < 0 {
			slab = 0
		} else if slab >= n {
			slab = n - 1
		}
		s := &slabs[slab]
		s.Types = append(s.Types, typ)
		s.Positions = append(s.Positions, ps.Positions[i])
		s.Orientations = append(s.Orientations, ps.Orientations[i])
	}

	for r := range parts {
		var c comm.Communicator
		if world != nil {
			c = world.Rank(r)
		}
		pd := system.NewParticleData(box, exec, c)
		if err := slabs[r].Load(pd, mc.NTypes()); err != nil {
			closeFields(parts[:r])
			return nil, err
		}

		f, err := hpmc.NewWallField(pd, mc)
		if err != nil {
			closeFields(parts[:r])
			return nil, err
		}
		f.Log(r == 0)
		f.SetWorkers(con.Run.Workers)
		f.SetSphereWalls(sws)
		f.SetCylinderWalls(cws)
		f.SetPlaneWalls(pws)
		f.SetVolume(con.Run.Volume)

		parts[r] = partition{pd, f}
	}
	return parts, nil
}

func closeFields(parts []partition) {
	for _, p := range parts {
		p.field.Close()
	}
}
