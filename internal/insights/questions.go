package insights

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultQuestions are asked on the executive insights page.
var DefaultQuestions = []string{
	"Which items reach 75% and 50% sold, including days to sell out.",
	"Identify the weekly, monthly, and quarterly best-selling items.",
	"Describe non-moving products and their aging quantities.",
	"Describe slow-moving sizes within specific categories.",
	"Provide insights on variances and suggest strategies for improvement in general, daily use language.",
	"Recommend which products from our stock to prioritize for online sales.",
	"Describe unique products to enhance our online portfolio and what products are searched on Google as per Google Trends in the last 30 days in Madhya Pradesh.",
	"Identify the top 20% of products contributing to 80% of sales.",
	"Suggest strategies to reduce inventory of low-performing items.",
}

type questionsFile struct {
	Questions []string `yaml:"questions"`
}

// LoadQuestions reads a YAML document of the form
//
//	questions:
//	  - "..."
//
// An empty path returns DefaultQuestions.
func LoadQuestions(path string) ([]string, error) {
	if path == "" {
		return DefaultQuestions, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}

	var doc questionsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}

	questions := make([]string, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("questions file %s lists no questions", path)
	}
	return questions, nil
}
