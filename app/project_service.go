package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"orion/domain/core"
	"orion/domain/dataset"
	"orion/domain/ml"
	"orion/domain/project"
	internal "orion/internal"
	apperrors "orion/internal/errors"
	"orion/ports"
)

// ProjectService packages trained models into reusable prediction forms
type ProjectService struct {
	repo     ports.ProjectRepository
	datasets *DatasetService
	loader   *FrameLoader
	ml       *MLService
	activity *ActivityService
	logger   *internal.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	repo ports.ProjectRepository,
	datasets *DatasetService,
	loader *FrameLoader,
	ml *MLService,
	activity *ActivityService,
	logger *internal.Logger,
) *ProjectService {
	return &ProjectService{
		repo:     repo,
		datasets: datasets,
		loader:   loader,
		ml:       ml,
		activity: activity,
		logger:   logger,
	}
}

// ProjectInput carries the writable fields of a project
type ProjectInput struct {
	Name        string
	Description string
	DatasetID   core.DatasetID
	ModelID     core.ModelID
	ModelLabel  string
	Status      project.Status
}

// Create validates the dataset and model artifact belong together and
// derives the input schema from the column metadata.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*project.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("project name must not be empty")
	}

	ds, err := s.datasets.Get(ctx, in.DatasetID)
	if err != nil {
		return nil, err
	}
	meta, err := s.ml.Metadata(ctx, in.ModelID)
	if err != nil {
		return nil, err
	}
	if meta.DatasetID != in.DatasetID {
		return nil, apperrors.InvalidInput(fmt.Sprintf("model %s was trained on dataset %s, not %s", in.ModelID, meta.DatasetID, in.DatasetID))
	}

	label := in.ModelLabel
	if label == "" {
		label = meta.BestLabel
	}
	if _, ok := meta.ModelMetrics[label]; !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("model %q in artifact %s", label, in.ModelID))
	}

	schema, err := s.deriveInputSchema(ctx, ds, meta.Features)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = project.StatusDraft
	}
	if !status.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown project status %q", status))
	}

	now := time.Now().UTC()
	p := &project.Project{
		ID:           core.ProjectID(core.NewID()),
		Name:         name,
		Description:  in.Description,
		DatasetID:    in.DatasetID,
		ModelID:      in.ModelID,
		ModelLabel:   label,
		Target:       meta.Target,
		Features:     meta.Features,
		InputSchema:  schema,
		TrainConfig: map[string]any{
			"selection_metric": meta.SelectionMetric,
		},
		ModelMetrics: metricsAsMaps(meta),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns one project
func (s *ProjectService) Get(ctx context.Context, id core.ProjectID) (*project.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns projects, newest update first
func (s *ProjectService) List(ctx context.Context, limit, offset int) ([]*project.Project, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Update changes the presentational fields and status of a project
func (s *ProjectService) Update(ctx context.Context, id core.ProjectID, name, description string, status project.Status) (*project.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		p.Name = name
	}
	p.Description = description
	if status != "" {
		if !status.Valid() {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unknown project status %q", status))
		}
		p.Status = status
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project and its run history
func (s *ProjectService) Delete(ctx context.Context, id core.ProjectID) error {
	return s.repo.Delete(ctx, id)
}

// Predict runs the project's model on form inputs and logs the run
func (s *ProjectService) Predict(ctx context.Context, id core.ProjectID, inputs map[string]any, actor Actor) (*project.Run, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	values := make(map[core.ColumnKey]any, len(inputs))
	for k, v := range inputs {
		values[core.ColumnKey(k)] = v
	}

	pred, err := s.ml.Predict(ctx, PredictInput{
		ModelID:     p.ModelID,
		Label:       p.ModelLabel,
		InputValues: values,
	})
	if err != nil {
		return nil, err
	}

	run := &project.Run{
		ID:             core.NewID(),
		ProjectID:      p.ID,
		InputValues:    inputs,
		PredictedValue: pred.PredictedValue,
		ModelUsed:      pred.ModelUsed,
		ExpectedError:  pred.ExpectedError,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	dsID := p.DatasetID
	if err := s.activity.Record(ctx, RecordInput{
		Action:    "predict",
		DatasetID: &dsID,
		User:      actor.User,
		IPAddress: actor.IPAddress,
		Details:   fmt.Sprintf("project %s predicted %s = %.4f", p.Name, p.Target, pred.PredictedValue),
	}); err != nil {
		s.logger.Warn("[project] failed to record predict activity for %s: %v", p.ID, err)
	}

	return run, nil
}

// Runs returns the newest prediction runs of a project
func (s *ProjectService) Runs(ctx context.Context, id core.ProjectID, limit int) ([]*project.Run, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.repo.ListRuns(ctx, id, limit)
}

// deriveInputSchema builds the prediction form: categorical features
// become selects over their observed values, numeric ones number
// inputs defaulting to 0.
func (s *ProjectService) deriveInputSchema(ctx context.Context, ds *dataset.Dataset, features []core.ColumnKey) ([]project.InputField, error) {
	f, err := s.loader.Load(ctx, ds.ID)
	if err != nil {
		return nil, err
	}

	schema := make([]project.InputField, 0, len(features))
	for _, key := range features {
		meta, ok := ds.ColumnByKey(key)
		if !ok {
			return nil, apperrors.NotFound(fmt.Sprintf("column %s", key))
		}

		field := project.InputField{
			ColKey:   key,
			Name:     meta.Name,
			VarType:  string(meta.VarType),
			Required: true,
		}
		if meta.VarType == dataset.VarCategorical {
			field.InputType = "select"
			for _, v := range f.UniqueValues(key) {
				field.AllowedValues = append(field.AllowedValues, fmt.Sprintf("%v", v))
			}
		} else {
			field.InputType = "number"
			field.DefaultValue = 0.0
		}
		schema = append(schema, field)
	}
	return schema, nil
}

func metricsAsMaps(meta ml.ArtifactMetadata) map[string]map[string]any {
	out := make(map[string]map[string]any, len(meta.ModelMetrics))
	for label, m := range meta.ModelMetrics {
		entry := map[string]any{
			"r2":      m.R2,
			"rmse":    m.RMSE,
			"mae":     m.MAE,
			"is_best": m.IsBest,
		}
		if m.MAPE != nil {
			entry["mape"] = *m.MAPE
		}
		out[label] = entry
	}
	return out
}
