package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"go-ionicdose/dilution"
)

// profilesFile 场景文件格式
type profilesFile struct {
	Version  string                        `yaml:"version"`
	Profiles []dilution.ApplicationProfile `yaml:"profiles"`
}

// UnversionedProfiles 场景文件未写 version 时使用的版本号
const UnversionedProfiles = "unversioned"

// ProfileSet 带版本号的场景表
type ProfileSet struct {
	Version  string
	Profiles []dilution.ApplicationProfile
}

// LoadProfiles 加载场景表，路径为空时返回内置场景
func LoadProfiles(path string) (ProfileSet, error) {
	if path == "" {
		return ProfileSet{Version: dilution.DefaultProfilesVersion, Profiles: dilution.DefaultProfiles()}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ProfileSet{}, fmt.Errorf("failed to read profiles: %w", err)
	}

	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return ProfileSet{}, fmt.Errorf("failed to parse profiles: %w", err)
	}
	if err := dilution.ValidateProfiles(f.Profiles); err != nil {
		return ProfileSet{}, fmt.Errorf("invalid profiles in %s: %w", path, err)
	}
	if f.Version == "" {
		f.Version = UnversionedProfiles
	}
	return ProfileSet{Version: f.Version, Profiles: f.Profiles}, nil
}
