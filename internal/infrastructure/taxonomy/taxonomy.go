// Package taxonomy maps policy-interest labels to the federal agency-name
// fragments considered relevant to them. The built-in table covers the fixed
// interest set offered in user preferences; deployments can extend or
// override entries through a YAML file.
package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Table struct {
	fragments map[string][]string
}

// AgencyFragments returns the fragment set for one interest label, or nil for
// labels outside the taxonomy.
func (t *Table) AgencyFragments(interest string) []string {
	if t == nil {
		return nil
	}
	return t.fragments[interest]
}

// Interests lists every label the table knows about.
func (t *Table) Interests() []string {
	out := make([]string, 0, len(t.fragments))
	for label := range t.fragments {
		out = append(out, label)
	}
	return out
}

// Default returns the compiled-in taxonomy.
func Default() *Table {
	return &Table{fragments: defaultFragments()}
}

// LoadFile reads a YAML mapping of interest label to fragment list and merges
// it over the default table. File entries replace default entries with the
// same label.
func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}

	var overrides map[string][]string
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parse taxonomy yaml: %w", err)
	}

	merged := defaultFragments()
	for label, fragments := range overrides {
		if len(fragments) == 0 {
			delete(merged, label)
			continue
		}
		merged[label] = fragments
	}
	return &Table{fragments: merged}, nil
}

func defaultFragments() map[string][]string {
	return map[string][]string{
		"Health & Social Welfare": {
			"Health and Human Services",
			"Centers for Medicare & Medicaid",
			"Food and Drug Administration",
			"Centers for Disease Control",
			"National Institutes of Health",
			"Social Security Administration",
		},
		"Environment & Energy": {
			"Environmental Protection Agency",
			"Energy Department",
			"Interior Department",
			"Fish and Wildlife",
			"National Oceanic and Atmospheric",
			"Federal Energy Regulatory",
		},
		"Economy & Finance": {
			"Treasury Department",
			"Federal Reserve",
			"Securities and Exchange",
			"Commodity Futures Trading",
			"Consumer Financial Protection",
			"Internal Revenue Service",
			"Small Business Administration",
		},
		"Education": {
			"Education Department",
			"National Science Foundation",
		},
		"Defense & National Security": {
			"Defense Department",
			"Homeland Security Department",
			"Army Department",
			"Navy Department",
			"Air Force Department",
		},
		"Immigration": {
			"Citizenship and Immigration Services",
			"Customs and Border Protection",
			"Immigration and Customs Enforcement",
			"Executive Office for Immigration Review",
			"State Department",
		},
		"Labor & Employment": {
			"Labor Department",
			"Occupational Safety and Health",
			"Equal Employment Opportunity",
			"National Labor Relations Board",
			"Wage and Hour Division",
		},
		"Agriculture & Food": {
			"Agriculture Department",
			"Food Safety and Inspection",
			"Forest Service",
			"Farm Service Agency",
		},
		"Transportation": {
			"Transportation Department",
			"Federal Aviation Administration",
			"Federal Highway Administration",
			"National Highway Traffic Safety",
			"Federal Railroad Administration",
			"Federal Motor Carrier Safety",
		},
		"Technology & Communications": {
			"Federal Communications Commission",
			"National Telecommunications and Information",
			"Federal Trade Commission",
			"National Institute of Standards and Technology",
		},
		"Housing & Urban Development": {
			"Housing and Urban Development",
			"Federal Housing Finance Agency",
		},
		"Justice & Civil Rights": {
			"Justice Department",
			"Civil Rights Division",
			"Bureau of Prisons",
			"Drug Enforcement Administration",
		},
		"Veterans": {
			"Veterans Affairs Department",
		},
	}
}
