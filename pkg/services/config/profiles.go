package config

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/ini.v1"
)

// Profile is a named environment entry in the atlas config file,
// pointing a run at a database file and an artifact directory.
type Profile struct {
	Name   string
	DBPath string
	OutDir string
}

type ProfileRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
}

type profileRegistry struct {
	path string
}

func NewProfileRegistry(path string) ProfileRegistry {
	return &profileRegistry{path: path}
}

func (r *profileRegistry) GetProfiles(_ context.Context) ([]string, error) {
	cfg, err := ini.Load(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles file %s: %w", r.path, err)
	}

	var names []string
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		names = append(names, section.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (r *profileRegistry) GetProfile(_ context.Context, name string) (*Profile, error) {
	cfg, err := ini.Load(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles file %s: %w", r.path, err)
	}

	section, err := cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %q not found in %s: %w", name, r.path, err)
	}

	profile := &Profile{
		Name:   name,
		DBPath: section.Key("db_path").String(),
		OutDir: section.Key("out_dir").String(),
	}
	if profile.DBPath == "" {
		return nil, fmt.Errorf("profile %q is missing db_path", name)
	}
	if profile.OutDir == "" {
		return nil, fmt.Errorf("profile %q is missing out_dir", name)
	}
	return profile, nil
}
