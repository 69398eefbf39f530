package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/shindo-cli/internal/export"
	"github.com/sells-group/shindo-cli/pkg/shindo"
)

var codeTables = []shindo.Table{
	shindo.TablePrefectures,
	shindo.TableCities,
	shindo.TableStations,
	shindo.TableRegions,
}

func parseTable(s string) (shindo.Table, error) {
	for _, t := range codeTables {
		if string(t) == s {
			return t, nil
		}
	}
	return "", eris.Wrapf(shindo.ErrInvalidParams, "unknown code table %q", s)
}

// lookupCodes lists a table, or looks up a single entry when name or code is
// set. Regions have names only.
func lookupCodes(ctx context.Context, r *shindo.Resolver, t shindo.Table, name string, code int) ([]export.Entry, error) {
	if t == shindo.TableRegions {
		if code != 0 {
			return nil, eris.Wrap(shindo.ErrInvalidParams, "regions have no codes")
		}
		if name != "" {
			ok, err := r.IsRegionName(ctx, name)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, eris.Wrapf(shindo.ErrNotFound, "regions name %q", name)
			}
			return []export.Entry{{Name: name}}, nil
		}
		names, err := r.RegionNames(ctx)
		if err != nil {
			return nil, err
		}
		entries := make([]export.Entry, len(names))
		for i, n := range names {
			entries[i] = export.Entry{Name: n}
		}
		return entries, nil
	}

	switch {
	case code != 0:
		n, err := r.Name(ctx, t, code)
		if err != nil {
			return nil, err
		}
		return []export.Entry{{Code: code, Name: n}}, nil
	case name != "":
		c, err := r.Code(ctx, t, name)
		if err != nil {
			return nil, err
		}
		n, err := r.Name(ctx, t, c)
		if err != nil {
			return nil, err
		}
		return []export.Entry{{Code: c, Name: n}}, nil
	}

	codes, err := r.Codes(ctx, t)
	if err != nil {
		return nil, err
	}
	names, err := r.Names(ctx, t)
	if err != nil {
		return nil, err
	}
	entries := make([]export.Entry, len(codes))
	for i := range codes {
		entries[i] = export.Entry{Code: codes[i], Name: names[i]}
	}
	return entries, nil
}

var (
	codesOutput outputFlags
	codesName   string
	codesCode   int
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List or look up prefecture, city, station and region codes",
}

func newCodesTableCmd(t shindo.Table, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(t),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w, err := codesOutput.writer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			entries, err := lookupCodes(ctx, client.Resolver(), t, codesName, codesCode)
			if err != nil {
				return err
			}
			return w.Codes(ctx, string(t), entries)
		},
	}
}

func init() {
	codesOutput.bindFlags(codesCmd.PersistentFlags())
	codesCmd.PersistentFlags().StringVar(&codesName, "name", "", "look up the entry with this name")
	codesCmd.PersistentFlags().IntVar(&codesCode, "code", 0, "look up the entry with this code")

	codesCmd.AddCommand(
		newCodesTableCmd(shindo.TablePrefectures, "Prefectures (static table)"),
		newCodesTableCmd(shindo.TableCities, "Cities and wards hosting stations"),
		newCodesTableCmd(shindo.TableStations, "Seismic intensity observing stations"),
		newCodesTableCmd(shindo.TableRegions, "Epicenter region names"),
	)
	rootCmd.AddCommand(codesCmd)
}
