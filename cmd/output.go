package main

import (
	"io"

	"github.com/spf13/pflag"

	"github.com/sells-group/shindo-cli/internal/export"
)

// outputFlags selects how a command renders its result.
type outputFlags struct {
	format string
	out    string
}

func (o *outputFlags) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.format, "format", "", "output format: table, json, yaml, csv, xlsx, sqlite (default from config)")
	fs.StringVar(&o.out, "out", "", "output file, required for xlsx and sqlite")
}

// resolveFormat returns the flag value, falling back to the configured default.
func resolveFormat(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

func (o *outputFlags) writer(stdout io.Writer) (*export.Writer, error) {
	f, err := export.ParseFormat(resolveFormat(o.format, cfg.Output.Format))
	if err != nil {
		return nil, err
	}
	return export.New(f, stdout, o.out)
}
