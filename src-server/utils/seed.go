package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed lists the users to create when the registry starts empty.
//
//	users:
//	  - first_name: Ada
//	    last_name: Lovelace
//	    ics: ./calendars/ada.ics
type Seed struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	// file path or http(s) URL
	ICS string `yaml:"ics"`
}

func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadSeed: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("LoadSeed: %w", err)
	}
	return &seed, nil
}
