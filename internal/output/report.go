package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantmind-br/conceptmerge/internal/domain"
	"github.com/quantmind-br/conceptmerge/internal/utils"
	"gopkg.in/yaml.v3"
)

// Report summarises one combine run
type Report struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Manifest    string             `json:"manifest" yaml:"manifest"`
	Output      string             `json:"output" yaml:"output"`
	Written     bool               `json:"written" yaml:"written"`
	Sections    int                `json:"sections" yaml:"sections"`
	Warnings    int                `json:"warnings" yaml:"warnings"`
	Diagnostics domain.Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

// WriteReport writes r to path as YAML when the extension is .yaml or
// .yml, JSON otherwise.
func WriteReport(path string, r *Report) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(r)
	default:
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(path); err != nil {
		return domain.NewOutputWriteError(path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return domain.NewOutputWriteError(path, err)
	}
	return nil
}
