package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
)

// Descriptor identifies a remote repository and ref whose docs/ folder is mirrored.
type Descriptor struct {
	Author string `json:"author" yaml:"author"`
	Repo   string `json:"repo" yaml:"repo"`
	Branch string `json:"branch" yaml:"branch"`
}

// FullName returns author/repo.
func (d Descriptor) FullName() string { return d.Author + "/" + d.Repo }

// String includes the branch, e.g. acme/widgets@main.
func (d Descriptor) String() string { return d.FullName() + "@" + d.Branch }

func (d *Descriptor) normalize() {
	d.Author = strings.TrimSpace(d.Author)
	d.Repo = strings.TrimSpace(d.Repo)
	d.Branch = strings.TrimSpace(d.Branch)
	if d.Branch == "" {
		d.Branch = DefaultBranch
	}
}

// Validate reports a descriptor that cannot address a repository.
func (d Descriptor) Validate() error {
	if d.Author == "" {
		return rderrors.ValidationFailed("author", "must not be empty")
	}
	if d.Repo == "" {
		return rderrors.ValidationFailed("repo", "must not be empty").WithContext("author", d.Author)
	}
	if strings.Contains(d.Author, "/") || strings.Contains(d.Repo, "/") {
		return rderrors.ValidationFailed("repo", "author and repo must not contain '/'").
			WithContext("repository", d.FullName())
	}
	return nil
}

const descriptorSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["author", "repo"],
    "properties": {
      "author": {"type": "string", "minLength": 1},
      "repo":   {"type": "string", "minLength": 1},
      "branch": {"type": "string"}
    }
  }
}`

// ParseDescriptors validates raw descriptor-list JSON against the descriptor
// schema and decodes it.
func ParseDescriptors(data []byte) ([]Descriptor, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(descriptorSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, rderrors.Wrap(err, rderrors.CategoryValidation, rderrors.SeverityFatal, "descriptor file is not valid JSON")
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			reasons = append(reasons, re.String())
		}
		return nil, rderrors.ValidationFailed("descriptors", strings.Join(reasons, "; "))
	}

	var descs []Descriptor
	if err := json.Unmarshal(data, &descs); err != nil {
		return nil, rderrors.Wrap(err, rderrors.CategoryValidation, rderrors.SeverityFatal, "failed to decode descriptors")
	}
	for i := range descs {
		descs[i].normalize()
		if err := descs[i].Validate(); err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
	}
	return descs, nil
}

// LoadDescriptors reads and validates a descriptor list file.
func LoadDescriptors(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rderrors.ConfigNotFound(path)
		}
		return nil, fmt.Errorf("failed to read descriptor file: %w", err)
	}
	return ParseDescriptors(data)
}

// AllDescriptors returns the descriptors from DescriptorsFile followed by the
// inline ones, in that order.
func (c *Config) AllDescriptors() ([]Descriptor, error) {
	var out []Descriptor
	if c.DescriptorsFile != "" {
		fromFile, err := LoadDescriptors(c.DescriptorsFile)
		if err != nil {
			return nil, err
		}
		out = append(out, fromFile...)
	}
	out = append(out, c.Descriptors...)
	return out, nil
}
