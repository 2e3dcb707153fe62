package entity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadCategorySet reads a category configuration from a JSON or YAML file,
// chosen by extension, and validates it.
func LoadCategorySet(path string) (*CategorySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}

	var set CategorySet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("parse categories file %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("parse categories file %q: %w", path, err)
		}
	}

	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("categories file %q: %w", path, err)
	}
	return &set, nil
}

// DefaultCategorySet is the built-in configuration used when no categories
// file is supplied. "Other" is not listed; it is the reserved fallback.
func DefaultCategorySet() *CategorySet {
	return &CategorySet{Categories: []Category{
		{
			Name:        "Groceries",
			Description: "Supermarkets and food stores",
			Keywords:    []string{"SAFEWAY", "TRADER JOE", "WHOLE FOODS", "COSTCO", "KROGER"},
		},
		{
			Name:        "Dining Out",
			Description: "Restaurants, cafes, bars, and takeout",
			Keywords:    []string{"TST*", "DOORDASH", "STARBUCKS", "CHIPOTLE", "DUTCH BROS"},
		},
		{
			Name:        "Fuel",
			Description: "Gas stations and vehicle fuel",
			Keywords:    []string{"SHELL", "CHEVRON", "EXXON", "ARCO", "76"},
		},
		{
			Name:        "Utilities",
			Description: "Electricity, water, gas, internet, and phone service",
			Keywords:    []string{"PG&E", "COMCAST", "XFINITY", "VERIZON", "T-MOBILE"},
		},
		{
			Name:        "Subscriptions",
			Description: "Recurring digital services and memberships",
			Keywords:    []string{"NETFLIX", "SPOTIFY", "HULU", "APPLE.COM/BILL", "PRIME"},
		},
		{
			Name:        "Shopping",
			Description: "Retail purchases and online shopping",
			Keywords:    []string{"AMAZON", "TARGET", "WALMART", "BEST BUY"},
		},
		{
			Name:        "Health",
			Description: "Pharmacies, medical care, and fitness",
			Keywords:    []string{"CVS", "WALGREENS", "PHARMACY", "GYM"},
		},
		{
			Name:        "Travel",
			Description: "Flights, lodging, rideshare, and transit",
			Keywords:    []string{"UBER", "LYFT", "AIRBNB", "DELTA", "UNITED"},
		},
		{
			Name:        "Entertainment",
			Description: "Movies, events, and recreation",
			Keywords:    []string{"AMC", "TICKETMASTER", "STEAM"},
		},
	}}
}
