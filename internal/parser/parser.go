package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/me/groupsched/pkg/model"
	"gopkg.in/yaml.v3"
)

// ErrFileReference is returned by ParseInline for documents that name a
// catalog or dependency file.
var ErrFileReference = errors.New("scenario references external files; inline tasks and groups instead")

// Parser loads scenarios, task catalogs and group files into domain models.
type Parser struct {
	logger *slog.Logger
}

// New creates a Parser with the given logger.
func New(logger *slog.Logger) *Parser {
	return &Parser{logger: logger.With("component", "parser")}
}

// LoadScenario reads a YAML (or JSON) scenario file. Catalog and dependency
// references inside it are resolved relative to the file's directory.
func (p *Parser) LoadScenario(path string) (*model.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := p.ParseScenario(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	return sc, nil
}

// ParseScenario decodes a scenario document and loads any referenced
// catalog or group file from baseDir.
func (p *Parser) ParseScenario(data []byte, baseDir string) (*model.Scenario, error) {
	sc, err := decodeScenario(data)
	if err != nil {
		return nil, err
	}

	if sc.Catalog != "" {
		tasks, err := p.LoadCatalog(resolvePath(baseDir, sc.Catalog))
		if err != nil {
			return nil, err
		}
		sc.Tasks = append(sc.Tasks, tasks...)
	}
	if sc.Dependency != "" {
		groups, err := p.LoadGroups(resolvePath(baseDir, sc.Dependency))
		if err != nil {
			return nil, err
		}
		sc.Groups = append(sc.Groups, groups...)
	}
	return sc, nil
}

// ParseInline decodes a self-contained scenario document. File references
// are rejected with ErrFileReference.
func (p *Parser) ParseInline(data []byte) (*model.Scenario, error) {
	sc, err := decodeScenario(data)
	if err != nil {
		return nil, err
	}
	if sc.Catalog != "" || sc.Dependency != "" {
		return nil, ErrFileReference
	}
	return sc, nil
}

func decodeScenario(data []byte) (*model.Scenario, error) {
	res, err := Decode(data)
	if err != nil {
		return nil, err
	}
	var sc model.Scenario
	if err := yaml.Unmarshal([]byte(res.Text), &sc); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	return &sc, nil
}

// LoadCatalog reads a CSV task catalog in any of DefaultEncodings.
func (p *Parser) LoadCatalog(path string) ([]model.Task, error) {
	text, err := p.readText(path)
	if err != nil {
		return nil, err
	}
	tasks, skipped, err := ParseCatalogCSV(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, s := range skipped {
		p.logger.Warn("catalog row skipped", "path", path, "line", s.Line, "reason", s.Reason)
	}
	p.logger.Debug("catalog loaded", "path", path, "tasks", len(tasks), "skipped", len(skipped))
	return tasks, nil
}

// LoadGroups reads a group membership file in any of DefaultEncodings.
func (p *Parser) LoadGroups(path string) ([]model.GroupSpec, error) {
	text, err := p.readText(path)
	if err != nil {
		return nil, err
	}
	groups, err := ParseGroups(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.logger.Debug("groups loaded", "path", path, "groups", len(groups))
	return groups, nil
}

// BuildScenario assembles a scenario from a catalog file, a group file and a
// timeline, the way the flat-file inputs are used without a scenario file.
func (p *Parser) BuildScenario(name, catalogPath, groupsPath string, tl model.Timeline) (*model.Scenario, error) {
	tasks, err := p.LoadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	groups, err := p.LoadGroups(groupsPath)
	if err != nil {
		return nil, err
	}
	return &model.Scenario{Name: name, Timeline: tl, Tasks: tasks, Groups: groups}, nil
}

func (p *Parser) readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	res, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	p.logger.Debug("decoded", "path", path, "encoding", res.Encoding, "attempts", len(res.Attempts))
	return res.Text, nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}
