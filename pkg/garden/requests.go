package garden

import (
	"errors"
	"strings"
)

// NewPlant is the add-plant form payload. When IsNewType is set the type is
// created on the fly from TypeName and the two week counts.
type NewPlant struct {
	Name         string `json:"name"`
	NextWatering string `json:"next_watering_date,omitempty"`
	IsNewType    bool   `json:"is_new_type"`
	TypeID       ID     `json:"type_id,omitempty"`
	TypeName     string `json:"type_name"`
	SummerWeeks  int    `json:"summer_weeks,omitempty"`
	WinterWeeks  int    `json:"winter_weeks,omitempty"`
}

// Validate checks what the form itself can check before submitting.
func (n NewPlant) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return errors.New("name is required")
	}
	if n.NextWatering != "" {
		if _, err := ParseDate(n.NextWatering); err != nil {
			return errors.New("next watering must be YYYY-MM-DD")
		}
	}
	if n.IsNewType {
		if strings.TrimSpace(n.TypeName) == "" {
			return errors.New("type name is required")
		}
		if n.SummerWeeks <= 0 || n.WinterWeeks <= 0 {
			return errors.New("intervals must be positive numbers of weeks")
		}
		return nil
	}
	if n.TypeID == "" && strings.TrimSpace(n.TypeName) == "" {
		return errors.New("choose a type")
	}
	return nil
}

// PlantUpdate is the edit-plant payload. Type is sent under both keys since
// backends disagree on the name.
type PlantUpdate struct {
	Name   string `json:"name"`
	Type   ID     `json:"type"`
	TypeID ID     `json:"type_id,omitempty"`
}

// TypeRule creates or updates a watering rule.
type TypeRule struct {
	Name        string `json:"type_name"`
	SummerWeeks int    `json:"summer_weeks"`
	WinterWeeks int    `json:"winter_weeks"`
}

func (r TypeRule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("type name is required")
	}
	if r.SummerWeeks <= 0 || r.WinterWeeks <= 0 {
		return errors.New("intervals must be positive numbers of weeks")
	}
	return nil
}

// NewTask is the add-task payload.
type NewTask struct {
	Name          string `json:"name"`
	FrequencyDays int    `json:"frequency_days"`
}

func (t NewTask) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("task name is required")
	}
	if t.FrequencyDays <= 0 {
		return errors.New("frequency must be a positive number of days")
	}
	return nil
}

// Confirmation is what mutating endpoints answer with.
type Confirmation struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}
