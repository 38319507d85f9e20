package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/trebuchet-org/ignite/internal/domain"
	"github.com/trebuchet-org/ignite/internal/domain/config"
	"github.com/trebuchet-org/ignite/internal/domain/models"
	"github.com/trebuchet-org/ignite/internal/usecase"
)

// Repository indexes the Hardhat artifacts directory
type Repository struct {
	root   string
	log    *slog.Logger
	byName map[string][]*models.Artifact // key: contract name
	byFQN  map[string]*models.Artifact   // key: "source.sol:Name"
	once   sync.Once
	err    error
}

// NewRepository creates a new artifact repository
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return &Repository{
		root: cfg.ArtifactsDir,
		log:  log,
	}
}

// index walks the artifacts directory once
func (r *Repository) index() error {
	r.once.Do(func() {
		r.byName = make(map[string][]*models.Artifact)
		r.byFQN = make(map[string]*models.Artifact)

		if _, err := os.Stat(r.root); os.IsNotExist(err) {
			r.err = fmt.Errorf("artifacts directory %s not found, compile your contracts first", r.root)
			return
		}

		r.err = filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if d.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}

			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}

			return r.processArtifact(path)
		})

		r.log.Debug("artifacts indexed", "dir", r.root, "count", len(r.byFQN))
	})
	return r.err
}

// processArtifact adds a single artifact file to the index
func (r *Repository) processArtifact(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		// Not every JSON file under artifacts/ is an artifact
		r.log.Debug("skipping unparsable artifact", "path", path, "error", err)
		return nil
	}
	if artifact.ContractName == "" || artifact.SourceName == "" {
		return nil
	}
	artifact.Path = path

	fqn := artifact.FullyQualifiedName()
	if _, exists := r.byFQN[fqn]; exists {
		return nil
	}
	r.byFQN[fqn] = &artifact
	r.byName[artifact.ContractName] = append(r.byName[artifact.ContractName], &artifact)
	return nil
}

// GetArtifact returns the artifact for a contract name or a fully qualified name
func (r *Repository) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	if err := r.index(); err != nil {
		return nil, err
	}

	if strings.Contains(name, ":") {
		if artifact, ok := r.byFQN[name]; ok {
			return artifact, nil
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
	}

	matches := r.byName[name]
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, name)
	case 1:
		return matches[0], nil
	default:
		fqns := make([]string, len(matches))
		for i, m := range matches {
			fqns[i] = m.FullyQualifiedName()
		}
		sort.Strings(fqns)
		return nil, domain.AmbiguousArtifactError{Name: name, Matches: fqns}
	}
}

// ListArtifacts returns every indexed artifact ordered by fully qualified name
func (r *Repository) ListArtifacts(ctx context.Context) ([]*models.Artifact, error) {
	if err := r.index(); err != nil {
		return nil, err
	}

	fqns := make([]string, 0, len(r.byFQN))
	for fqn := range r.byFQN {
		fqns = append(fqns, fqn)
	}
	sort.Strings(fqns)

	out := make([]*models.Artifact, len(fqns))
	for i, fqn := range fqns {
		out[i] = r.byFQN[fqn]
	}
	return out, nil
}

// Ensure Repository implements ArtifactRepository
var _ usecase.ArtifactRepository = (*Repository)(nil)
