package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Dumper writes human-readable structure prints of arbitrary values,
// this is the debug stream for received updates and echo results and
// is kept separate from the leveled service logs
type Dumper struct {
	Format DumpFormat
	Writer io.Writer

	mutex sync.Mutex
}

func NewDumper(format DumpFormat, writer io.Writer) (*Dumper, error) {
	switch format {
	case DumpFormatYaml, DumpFormatJson, DumpFormatNone:
	case "":
		format = DumpFormatYaml
	default:
		return nil, fmt.Errorf("unknown dump format[%s]", format)
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Dumper{
		Format: format,
		Writer: writer,
	}, nil
}

// Dump prints `value` under a `label` header. A nil Dumper is valid
// and prints nothing
func (d *Dumper) Dump(label string, value any) error {
	if d == nil || d.Format == DumpFormatNone {
		return nil
	}
	body, err := d.format(value)
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", label, err)
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if _, err := fmt.Fprintf(d.Writer, "--- %s\n%s\n", label, strings.TrimRight(body, "\n")); err != nil {
		return fmt.Errorf("failed to write %s: %w", label, err)
	}
	return nil
}

func (d *Dumper) format(value any) (string, error) {
	// json first so that omitempty tags on api models are honoured
	// before the yaml conversion
	asJson, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	if d.Format == DumpFormatJson {
		return string(asJson), nil
	}
	var generic any
	if err := json.Unmarshal(asJson, &generic); err != nil {
		return "", err
	}
	asYaml, err := yaml.Marshal(generic)
	if err != nil {
		return "", err
	}
	return string(asYaml), nil
}
