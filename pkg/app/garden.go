package app

import (
	"context"
	"net/http"

	"tableflip.dev/plantdash/pkg/garden"
)

// Plants lists every plant.
func (s *Service) Plants(ctx context.Context) ([]garden.Plant, error) {
	var plants []garden.Plant
	if err := s.get(ctx, "/plants", &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

// Plant fetches a single plant, as used to prefill the edit form.
func (s *Service) Plant(ctx context.Context, id garden.ID) (*garden.Plant, error) {
	path, err := idPath("/plant/", id, "")
	if err != nil {
		return nil, err
	}
	p := &garden.Plant{}
	if err := s.get(ctx, path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// PlantHistory lists the dates a plant was watered.
func (s *Service) PlantHistory(ctx context.Context, id garden.ID) ([]string, error) {
	path, err := idPath("/plant_history/", id, "")
	if err != nil {
		return nil, err
	}
	var dates []string
	if err := s.get(ctx, path, &dates); err != nil {
		return nil, err
	}
	return dates, nil
}

// PlantTypes lists watering-rule types in the order the backend sends them.
func (s *Service) PlantTypes(ctx context.Context) ([]garden.PlantType, error) {
	var types []garden.PlantType
	if err := s.get(ctx, "/plant_types", &types); err != nil {
		return nil, err
	}
	return types, nil
}

// PlantRules loads the summer/winter interval table.
func (s *Service) PlantRules(ctx context.Context) (garden.Rules, error) {
	rules := garden.Rules{}
	if err := s.get(ctx, "/plant_rules", &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// AddPlant creates a plant, creating its type first when asked to.
func (s *Service) AddPlant(ctx context.Context, p garden.NewPlant) (*garden.Confirmation, error) {
	if s.legacy() {
		body := map[string]string{"nom": p.Name, "type": p.TypeName}
		if !p.IsNewType && p.TypeName == "" {
			body["type"] = p.TypeID.String()
		}
		return s.send(ctx, http.MethodPost, "/add_plant", body)
	}
	return s.send(ctx, http.MethodPost, "/plants", p)
}

// UpdatePlant edits a plant's name and type.
func (s *Service) UpdatePlant(ctx context.Context, id garden.ID, u garden.PlantUpdate) (*garden.Confirmation, error) {
	path, err := idPath("/plant/", id, "")
	if err != nil {
		return nil, err
	}
	if u.TypeID == "" {
		u.TypeID = u.Type
	}
	return s.send(ctx, http.MethodPut, path, u)
}

// DeletePlant removes a plant.
func (s *Service) DeletePlant(ctx context.Context, id garden.ID) (*garden.Confirmation, error) {
	if s.legacy() {
		path, err := idPath("/delete_plant/", id, "")
		if err != nil {
			return nil, err
		}
		return s.send(ctx, http.MethodPost, path, nil)
	}
	path, err := idPath("/plant/", id, "")
	if err != nil {
		return nil, err
	}
	return s.send(ctx, http.MethodDelete, path, nil)
}

// WaterPlant marks a plant watered today.
func (s *Service) WaterPlant(ctx context.Context, id garden.ID) (*garden.Confirmation, error) {
	var (
		path string
		err  error
	)
	if s.legacy() {
		path, err = idPath("/watered/", id, "")
	} else {
		path, err = idPath("/plant/", id, "/water")
	}
	if err != nil {
		return nil, err
	}
	return s.send(ctx, http.MethodPost, path, nil)
}

// SavePlantType creates or updates a watering rule.
func (s *Service) SavePlantType(ctx context.Context, r garden.TypeRule) (*garden.Confirmation, error) {
	if s.legacy() {
		return s.send(ctx, http.MethodPost, "/add_plant_type", r)
	}
	body := map[string]interface{}{
		"name":        r.Name,
		"summer_freq": r.SummerWeeks,
		"winter_freq": r.WinterWeeks,
	}
	return s.send(ctx, http.MethodPost, "/plant_types", body)
}

// Tasks lists recurring tasks.
func (s *Service) Tasks(ctx context.Context) ([]garden.Task, error) {
	var tasks []garden.Task
	if err := s.get(ctx, "/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// AddTask creates a recurring task.
func (s *Service) AddTask(ctx context.Context, t garden.NewTask) (*garden.Confirmation, error) {
	return s.send(ctx, http.MethodPost, "/add_task", t)
}

// CompleteTask marks a task done today.
func (s *Service) CompleteTask(ctx context.Context, id garden.ID) (*garden.Confirmation, error) {
	path, err := idPath("/complete_task/", id, "")
	if err != nil {
		return nil, err
	}
	return s.send(ctx, http.MethodPost, path, nil)
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id garden.ID) (*garden.Confirmation, error) {
	path, err := idPath("/delete_task/", id, "")
	if err != nil {
		return nil, err
	}
	return s.send(ctx, http.MethodPost, path, nil)
}
