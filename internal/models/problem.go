package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DifficultyMin and DifficultyMax bound the ordered difficulty scale.
// Ratio maps and ratio keys in exam requests use the string form ("1".."5").
const (
	DifficultyMin = 1
	DifficultyMax = 5
)

// Problem is a single exam question with its answer choices. The store owns
// the lifetime of these rows; search and exam generation only ever read them.
type Problem struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Question    string         `json:"question" gorm:"type:text;not null" validate:"required"`
	Answer      string         `json:"answer" gorm:"type:text;not null" validate:"required"`
	Explanation *string        `json:"explanation,omitempty" gorm:"type:text"`
	Difficulty  int            `json:"difficulty" gorm:"not null;index" validate:"required,min=1,max=5"`
	Tags        string         `json:"tags,omitempty" gorm:"size:255;index"`
	Choices     []Choice       `json:"choices" gorm:"foreignKey:ProblemID;constraint:OnDelete:CASCADE"`
	Source      datatypes.JSON `json:"-" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Choice is one selectable option of a Problem. Exactly one choice per
// single-answer problem carries IsCorrect; labels are unique per problem.
type Choice struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProblemID uint   `json:"-" gorm:"not null;index"`
	Label     string `json:"label" gorm:"size:8;not null" validate:"required"`
	Body      string `json:"body" gorm:"type:text;not null" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

func (Problem) TableName() string {
	return "problems"
}

func (Choice) TableName() string {
	return "choices"
}

// TagList splits the comma-separated tag string into trimmed tags.
func (p *Problem) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	parts := strings.Split(p.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, t := range parts {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasAnyTag reports whether the problem carries at least one of the given
// tags. An empty filter matches every problem.
func (p *Problem) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	own := p.TagList()
	for _, want := range tags {
		for _, t := range own {
			if t == want {
				return true
			}
		}
	}
	return false
}

// CorrectChoice returns the choice flagged as correct, or nil.
func (p *Problem) CorrectChoice() *Choice {
	for i := range p.Choices {
		if p.Choices[i].IsCorrect {
			return &p.Choices[i]
		}
	}
	return nil
}
