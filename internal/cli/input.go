package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfgraph/rdf"
)

// resolveFormat picks the format for path: the flag wins, then the file
// extension, then content sniffing (FormatAuto).
func resolveFormat(flag, path string) (rdf.Format, error) {
	if flag != "" {
		format, ok := rdf.ParseFormat(flag)
		if !ok {
			return "", fmt.Errorf("unknown format %q", flag)
		}
		return format, nil
	}
	if format, ok := rdf.FormatFromPath(path); ok {
		return format, nil
	}
	return rdf.FormatAuto, nil
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

// openDecoder opens path as a quad stream. The returned close function
// releases both the decoder and the file.
func openDecoder(cmd *cobra.Command, opts *RootOptions, in *rdf.Interner, path, formatFlag string) (rdf.QuadSource, func(), error) {
	format, err := resolveFormat(formatFlag, path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "invalid input format", err)
	}
	if format != rdf.FormatAuto && !format.CanDecode() {
		return nil, nil, NewExitError(ExitCommandError, fmt.Sprintf("%s input is not supported", format))
	}
	r, err := openInput(cmd, path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "cannot open input", err)
	}
	dec, err := rdf.NewQuadDecoder(r, format, opts.config.decodeOptions(cmd.Context(), in)...)
	if err != nil {
		r.Close()
		return nil, nil, WrapExitError(ExitFailure, path, err)
	}
	return dec, func() {
		dec.Close()
		r.Close()
	}, nil
}

// loadDataset reads every path into a fresh dataset with its own interner.
func loadDataset(cmd *cobra.Command, opts *RootOptions, paths []string, formatFlag string) (*rdf.Dataset, error) {
	ds := rdf.NewDataset(rdf.WithInterner(rdf.NewInterner()))
	for _, path := range paths {
		if err := loadInto(cmd.Context(), cmd, opts, ds, path, formatFlag, len(paths)); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func loadInto(ctx context.Context, cmd *cobra.Command, opts *RootOptions, ds *rdf.Dataset, path, formatFlag string, inputs int) error {
	dec, closeInput, err := openDecoder(cmd, opts, ds.Interner(), path, formatFlag)
	if err != nil {
		return err
	}
	defer closeInput()

	logger := opts.logger.With("input", path)
	if _, err := ds.Load(dec, opts.config.loadOptions(ctx, logger, inputs)...); err != nil {
		return WrapExitError(ExitFailure, path, err)
	}
	return nil
}
