package job

import (
	"archive/zip"
	"fmt"
	"os"

	"github.com/aouyang1/hyperprophet/dataframe"
)

// Archive entry names expected by the compute service.
const (
	trainEntry   = "train.parq"
	predictEntry = "predict.parq"
)

// writeArchive packages the fit and predict frames as columnar files inside a
// single zip archive at the given path.
func writeArchive(path string, fit, predict *dataframe.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create payload archive, %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	entries := []struct {
		name  string
		frame *dataframe.Frame
	}{
		{trainEntry, fit},
		{predictEntry, predict},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return fmt.Errorf("unable to create %s archive entry, %w", e.name, err)
		}
		if err := dataframe.WriteFrame(w, e.frame); err != nil {
			return fmt.Errorf("unable to serialize %s, %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to finalize payload archive, %w", err)
	}
	return f.Close()
}
