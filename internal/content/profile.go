// Package content holds the portfolio profile shown by the terminal: who the
// owner is, and the sections (about, experience, skills, projects,
// achievements, contact) rendered below the hero intro.
//
// Profiles are TOML or YAML files chosen by extension. ${VAR} references are
// expanded from the environment before decoding. A profile compiled into the
// binary is used when no file is configured.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Section identifiers, in default display order.
const (
	SectionAbout        = "about"
	SectionExperience   = "experience"
	SectionSkills       = "skills"
	SectionProjects     = "projects"
	SectionAchievements = "achievements"
	SectionContact      = "contact"
)

var defaultOrder = []string{
	SectionAbout,
	SectionExperience,
	SectionSkills,
	SectionProjects,
	SectionAchievements,
	SectionContact,
}

var sectionTitles = map[string]string{
	SectionAbout:        "about.md",
	SectionExperience:   "experience.log",
	SectionSkills:       "skills.json",
	SectionProjects:     "projects/",
	SectionAchievements: "achievements.txt",
	SectionContact:      "contact.sh",
}

// ErrUnsupportedFormat is returned for profile files that are neither TOML
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported profile format")

//go:embed default.toml
var defaultProfile []byte

// Profile is the portfolio owner and their sections.
type Profile struct {
	Name         string          `toml:"name" yaml:"name"`
	Handle       string          `toml:"handle" yaml:"handle"`
	Role         string          `toml:"role" yaml:"role"`
	Bio          string          `toml:"bio" yaml:"bio"`
	About        []string        `toml:"about" yaml:"about"`
	Sections     []string        `toml:"sections" yaml:"sections"`
	Experience   []Experience    `toml:"experience" yaml:"experience"`
	Projects     []Project       `toml:"projects" yaml:"projects"`
	Skills       []SkillCategory `toml:"skills" yaml:"skills"`
	Achievements []Achievement   `toml:"achievements" yaml:"achievements"`
	Contacts     []Contact       `toml:"contacts" yaml:"contacts"`
}

// Experience is one position in the experience timeline.
type Experience struct {
	Title   string   `toml:"title" yaml:"title"`
	Company string   `toml:"company" yaml:"company"`
	Period  string   `toml:"period" yaml:"period"`
	Points  []string `toml:"points" yaml:"points"`
}

// Validate validates the experience entry.
func (e Experience) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required),
	)
}

// Project is an expandable project card.
type Project struct {
	Name    string   `toml:"name" yaml:"name"`
	Summary string   `toml:"summary" yaml:"summary"`
	Details []string `toml:"details" yaml:"details"`
	Tech    []string `toml:"tech" yaml:"tech"`
	URL     string   `toml:"url" yaml:"url"`
}

// Validate validates the project.
func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Summary, validation.Required),
		validation.Field(&p.URL, validation.By(wellFormedURL)),
	)
}

// SkillCategory is a collapsible group of skills.
type SkillCategory struct {
	Name  string   `toml:"name" yaml:"name"`
	Items []string `toml:"items" yaml:"items"`
}

// Validate validates the category.
func (s SkillCategory) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Items, validation.Required),
	)
}

// Achievement is one line of the achievements section.
type Achievement struct {
	Title  string `toml:"title" yaml:"title"`
	Detail string `toml:"detail" yaml:"detail"`
}

// Validate validates the achievement.
func (a Achievement) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required),
	)
}

// Contact is one contact method.
type Contact struct {
	Label string `toml:"label" yaml:"label"`
	Value string `toml:"value" yaml:"value"`
	URL   string `toml:"url" yaml:"url"`
}

// Validate validates the contact.
func (c Contact) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Label, validation.Required),
		validation.Field(&c.Value, validation.Required),
		validation.Field(&c.URL, validation.By(wellFormedURL)),
	)
}

// Validate validates the profile and every nested entry.
func (p *Profile) Validate() error {
	known := make([]interface{}, 0, len(defaultOrder))
	for _, id := range defaultOrder {
		known = append(known, id)
	}
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Handle, validation.Required, validation.Length(1, 32)),
		validation.Field(&p.Sections, validation.Each(validation.In(known...))),
		validation.Field(&p.Experience),
		validation.Field(&p.Projects, validation.By(uniqueNames(len(p.Projects), func(i int) string { return p.Projects[i].Name }))),
		validation.Field(&p.Skills, validation.By(uniqueNames(len(p.Skills), func(i int) string { return p.Skills[i].Name }))),
		validation.Field(&p.Achievements),
		validation.Field(&p.Contacts),
	)
}

// wellFormedURL accepts empty values and absolute URLs such as
// https://host/path or mailto:someone@example.com.
func wellFormedURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return errors.New("must be an absolute URL")
	}
	return nil
}

// uniqueNames rejects n entries that share a name, ignoring case.
func uniqueNames(n int, name func(i int) string) validation.RuleFunc {
	return func(interface{}) error {
		seen := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			key := strings.ToLower(name(i))
			if seen[key] {
				return fmt.Errorf("duplicate name %q", name(i))
			}
			seen[key] = true
		}
		return nil
	}
}

// Load reads, expands and validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	p, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// LoadOrDefault loads path, or the built-in profile when path is empty.
func LoadOrDefault(path string) (*Profile, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes a profile; ext selects the format (".toml", ".yaml", ".yml").
func Parse(ext string, data []byte) (*Profile, error) {
	expanded := []byte(os.ExpandEnv(string(data)))

	var p Profile
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(expanded, &p); err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(expanded, &p); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &p, nil
}

// Default returns the built-in profile.
func Default() *Profile {
	p, err := Parse(".toml", defaultProfile)
	if err != nil {
		panic(fmt.Sprintf("content: built-in profile: %v", err))
	}
	return p
}

// SectionIDs lists the sections that have content, in display order.
// An explicit Sections list sets the order; unknown or empty sections are
// skipped either way.
func (p *Profile) SectionIDs() []string {
	order := p.Sections
	if len(order) == 0 {
		order = defaultOrder
	}
	seen := make(map[string]bool, len(order))
	ids := make([]string, 0, len(order))
	for _, id := range order {
		if seen[id] || !p.has(id) {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func (p *Profile) has(id string) bool {
	switch id {
	case SectionAbout:
		return len(p.About) > 0
	case SectionExperience:
		return len(p.Experience) > 0
	case SectionSkills:
		return len(p.Skills) > 0
	case SectionProjects:
		return len(p.Projects) > 0
	case SectionAchievements:
		return len(p.Achievements) > 0
	case SectionContact:
		return len(p.Contacts) > 0
	default:
		return false
	}
}

// SkillNames returns the skill category names in order.
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}

// SectionTitle is the file-like heading shown for a section.
func SectionTitle(id string) string {
	if t, ok := sectionTitles[id]; ok {
		return t
	}
	return id
}
