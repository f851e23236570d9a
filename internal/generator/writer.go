package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanshika/costar/internal/dataset"
	"github.com/vanshika/costar/internal/domain"
)

// WriteDataset serializes the dataset into credits, names and films files under dir,
// encoded in the requested format. It returns the locations written.
func WriteDataset(ds domain.Dataset, dir string, format dataset.Format) (dataset.Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dataset.Files{}, fmt.Errorf("create output dir: %w", err)
	}

	ext := "." + string(format)
	files := dataset.Files{
		CreditsPath: filepath.Join(dir, "credits"+ext),
		ActorsPath:  filepath.Join(dir, "names"+ext),
		FilmsPath:   filepath.Join(dir, "films"+ext),
	}
	if err := files.Write(ds); err != nil {
		return dataset.Files{}, err
	}
	return files, nil
}
