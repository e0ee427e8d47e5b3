/*package logger writes delimited rows of named quantities. Quantities are
supplied by registered Providers, and a Logger asks whichever provider
currently declares a name for its value at each logged timestep. Provided
names are looked up again on every call, so a provider's list may change
after it is registered.
*/
package logger

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Provider supplies named log quantities.
type Provider interface {
	// ProvidedLogQuantities lists every name the provider can compute.
	ProvidedLogQuantities() []string
	// LogValue returns the current value of a named quantity.
	LogValue(name string, timestep uint64) (float64, error)
}

// Logger writes one row of quantities per call to Analyze.
type Logger struct {
	w          io.Writer
	delimiter  string
	quantities []string
	providers  []Provider
}

// New creates a logger which writes to w using tabs as the delimiter.
func New(w io.Writer) *Logger {
	return &Logger{w: w, delimiter: "\t"}
}

// RegisterProvider makes every quantity p provides available to the logger.
// A later provider of the same name shadows an earlier one.
func (l *Logger) RegisterProvider(p Provider) {
	for _, name := range p.ProvidedLogQuantities() {
		if l.provider(name) != nil {
			log.Printf("logger: quantity %s registered twice, replacing it.", name)
		}
	}
	l.providers = append(l.providers, p)
}

// RemoveProvider forgets p. p must be comparable.
func (l *Logger) RemoveProvider(p Provider) {
	l.providers = lo.Filter(l.providers, func(q Provider, _ int) bool {
		return q != p
	})
}

// provider returns the most recently registered provider of name, or nil.
func (l *Logger) provider(name string) Provider {
	for i := len(l.providers) - 1; i >= 0; i-- {
		if lo.Contains(l.providers[i].ProvidedLogQuantities(), name) {
			return l.providers[i]
		}
	}
	return nil
}

// SetLoggedQuantities sets the columns written by Analyze.
func (l *Logger) SetLoggedQuantities(names []string) {
	l.quantities = lo.Uniq(lo.Map(names, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}

// LoggedQuantities returns the columns written by Analyze.
func (l *Logger) LoggedQuantities() []string {
	return append([]string{}, l.quantities...)
}

func (l *Logger) SetDelimiter(d string) { l.delimiter = d }

// Quantity returns the value of a single quantity. Unknown quantities are
// reported and evaluate to zero.
func (l *Logger) Quantity(name string, timestep uint64) float64 {
	p := l.provider(name)
	if p == nil {
		log.Printf("logger: %s is not registered, logging it as 0.", name)
		return 0
	}
	x, err := p.LogValue(name, timestep)
	if err != nil {
		log.Printf("logger: %s", err.Error())
		return 0
	}
	return x
}

// WriteHeader writes the column names.
func (l *Logger) WriteHeader() error {
	cols := append([]string{"timestep"}, l.quantities...)
	_, err := fmt.Fprintln(l.w, strings.Join(cols, l.delimiter))
	return errors.Wrap(err, "logger: could not write header")
}

// Analyze writes the row for timestep.
func (l *Logger) Analyze(timestep uint64) error {
	cols := make([]string, 0, len(l.quantities)+1)
	cols = append(cols, fmt.Sprintf("%d", timestep))
	for _, name := range l.quantities {
		cols = append(cols, fmt.Sprintf("%.10g", l.Quantity(name, timestep)))
	}
	_, err := fmt.Fprintln(l.w, strings.Join(cols, l.delimiter))
	return errors.Wrapf(err, "logger: could not write timestep %d", timestep)
}
