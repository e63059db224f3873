package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"orion/adapters/excel"
	"orion/domain/core"
	"orion/domain/dataset"
	internal "orion/internal"
	"orion/internal/config"
	apperrors "orion/internal/errors"
	"orion/internal/frame"
	"orion/ports"
)

// DatasetService owns spreadsheet ingestion and dataset lifecycle
type DatasetService struct {
	repo     ports.DatasetRepository
	frames   ports.FrameStore
	loader   *FrameLoader
	activity *ActivityService
	cfg      config.DataConfig
	logger   *internal.Logger
}

// NewDatasetService creates a new dataset service
func NewDatasetService(
	repo ports.DatasetRepository,
	frames ports.FrameStore,
	loader *FrameLoader,
	activity *ActivityService,
	cfg config.DataConfig,
	logger *internal.Logger,
) *DatasetService {
	return &DatasetService{
		repo:     repo,
		frames:   frames,
		loader:   loader,
		activity: activity,
		cfg:      cfg,
		logger:   logger,
	}
}

// Actor identifies who triggered an operation, used for the audit trail
type Actor struct {
	User      string
	IPAddress string
}

// Upload ingests a spreadsheet: parse, type columns, persist the frame
// to disk and the metadata to postgres.
func (s *DatasetService) Upload(ctx context.Context, filename string, data []byte, name string, actor Actor) (*dataset.Dataset, error) {
	if len(data) > s.cfg.MaxUploadMB*1024*1024 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("file exceeds the %d MB upload limit", s.cfg.MaxUploadMB))
	}

	sheet, err := excel.Read(filename, data)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse spreadsheet")
	}

	f, columns := buildFrame(sheet, s.cfg)

	if name == "" {
		name = strings.TrimSuffix(filename, extOf(filename))
	}

	ds := &dataset.Dataset{
		ID:               core.DatasetID(core.NewID()),
		Name:             name,
		OriginalFilename: filename,
		Columns:          columns,
		RowCount:         f.RowCount(),
		ColCount:         len(f.Columns),
		CreatedAt:        time.Now().UTC(),
	}

	path, err := s.frames.Save(ctx, ds.ID, f)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to persist frame")
	}
	ds.FramePath = path

	if err := s.repo.Create(ctx, ds); err != nil {
		if delErr := s.frames.Delete(ctx, ds.ID); delErr != nil {
			s.logger.Warn("[dataset] orphaned frame %s after failed create: %v", ds.ID, delErr)
		}
		return nil, err
	}
	s.loader.Put(ds.ID, f)

	s.recordActivity(ctx, "upload", ds, actor, fmt.Sprintf("%d rows, %d columns", ds.RowCount, ds.ColCount))
	s.logger.Info("[dataset] uploaded %s (%s): %d rows, %d columns", ds.Name, ds.ID, ds.RowCount, ds.ColCount)
	return ds, nil
}

// List returns stored dataset metadata plus the total count
func (s *DatasetService) List(ctx context.Context, limit, offset int) ([]*dataset.Dataset, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get returns the metadata of a single dataset
func (s *DatasetService) Get(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error) {
	return s.repo.GetByID(ctx, id)
}

// Meta is Get plus an access entry in the activity log. Internal callers
// use Get so service-to-service lookups do not pollute the history.
func (s *DatasetService) Meta(ctx context.Context, id core.DatasetID, actor Actor) (*dataset.Dataset, error) {
	ds, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.recordActivity(ctx, "access", ds, actor, "")
	return ds, nil
}

// Rename updates the display name
func (s *DatasetService) Rename(ctx context.Context, id core.DatasetID, name string, actor Actor) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.InvalidInput("dataset name must not be empty")
	}
	if err := s.repo.UpdateName(ctx, id, name); err != nil {
		return err
	}
	s.recordActivity(ctx, "update", &dataset.Dataset{ID: id, Name: name}, actor, "renamed")
	return nil
}

// UpdateColumnType overrides the detected variable type of one column.
// Discrete and continuous require a numeric column.
func (s *DatasetService) UpdateColumnType(ctx context.Context, id core.DatasetID, colKey core.ColumnKey, varType dataset.VarType, actor Actor) (*dataset.Dataset, error) {
	if !varType.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown variable type %q", varType))
	}

	ds, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range ds.Columns {
		if ds.Columns[i].ColKey != colKey {
			continue
		}
		if varType != dataset.VarCategorical && ds.Columns[i].DType != "float64" {
			return nil, apperrors.InvalidInput(fmt.Sprintf("column %q is not numeric, only categorical is allowed", colKey))
		}
		ds.Columns[i].VarType = varType
		found = true
		break
	}
	if !found {
		return nil, apperrors.NotFound(fmt.Sprintf("column %s", colKey))
	}

	if err := s.repo.UpdateColumns(ctx, id, ds.Columns); err != nil {
		return nil, err
	}
	s.recordActivity(ctx, "update", ds, actor, fmt.Sprintf("column %s set to %s", colKey, varType))
	return ds, nil
}

// Delete removes the dataset row, its frame file, and the cached frame
func (s *DatasetService) Delete(ctx context.Context, id core.DatasetID, actor Actor) error {
	ds, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.loader.Invalidate(id)
	if err := s.frames.Delete(ctx, id); err != nil {
		s.logger.Warn("[dataset] failed to remove frame for %s: %v", id, err)
	}

	s.recordActivity(ctx, "delete", ds, actor, "")
	s.logger.Info("[dataset] deleted %s (%s)", ds.Name, id)
	return nil
}

// QueryInput selects a row window, optionally filtered
type QueryInput struct {
	DatasetID core.DatasetID
	Filters   []dataset.FilterCondition
	Limit     int
	Offset    int
}

// QueryResult is a page of records plus the filtered row count
type QueryResult struct {
	Records  []map[string]any `json:"records"`
	Total    int              `json:"total"`
	Filtered int              `json:"filtered"`
}

// Query returns JSON-ready records with missing cells as null
func (s *DatasetService) Query(ctx context.Context, in QueryInput) (*QueryResult, error) {
	f, err := s.loader.Load(ctx, in.DatasetID)
	if err != nil {
		return nil, err
	}

	filtered := f.ApplyFilters(in.Filters)
	limit := in.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return &QueryResult{
		Records:  filtered.Records(limit, in.Offset),
		Total:    f.RowCount(),
		Filtered: filtered.RowCount(),
	}, nil
}

// UniqueValues returns the distinct values of a column, numerics first
func (s *DatasetService) UniqueValues(ctx context.Context, id core.DatasetID, colKey core.ColumnKey) ([]any, error) {
	f, err := s.loader.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !f.HasColumn(colKey) {
		return nil, apperrors.NotFound(fmt.Sprintf("column %s", colKey))
	}
	return f.UniqueValues(colKey), nil
}

func (s *DatasetService) recordActivity(ctx context.Context, action string, ds *dataset.Dataset, actor Actor, details string) {
	id := ds.ID
	err := s.activity.Record(ctx, RecordInput{
		Action:      action,
		DatasetID:   &id,
		DatasetName: ds.Name,
		Filename:    ds.OriginalFilename,
		User:        actor.User,
		IPAddress:   actor.IPAddress,
		Details:     details,
	})
	if err != nil {
		s.logger.Warn("[dataset] failed to record %s activity for %s: %v", action, ds.ID, err)
	}
}

// buildFrame coerces raw sheet cells into typed frame cells and
// derives the column metadata. A column is numeric only when every
// non-missing cell parses as a float.
func buildFrame(sheet *excel.RawSheet, cfg config.DataConfig) (*frame.Frame, []dataset.ColumnMeta) {
	keys := sanitizeColumnKeys(sheet.Headers)
	f := frame.New(keys)

	nCols := len(keys)
	numeric := make([]bool, nCols)
	for i := range numeric {
		numeric[i] = true
	}

	parsed := make([][]any, len(sheet.Rows))
	for r, row := range sheet.Rows {
		cells := make([]any, nCols)
		for c := 0; c < nCols; c++ {
			raw := strings.TrimSpace(row[c])
			if isMissingCell(raw) {
				continue
			}
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				cells[c] = v
			} else {
				cells[c] = raw
				numeric[c] = false
			}
		}
		parsed[r] = cells
	}

	// Numeric values in a column that turned out textual go back to
	// their string form so mixed columns stay categorical.
	for c := 0; c < nCols; c++ {
		if numeric[c] {
			continue
		}
		for r := range parsed {
			if v, ok := parsed[r][c].(float64); ok {
				parsed[r][c] = frame.CanonicalString(v)
			}
		}
	}
	f.Rows = parsed

	columns := make([]dataset.ColumnMeta, nCols)
	for c := 0; c < nCols; c++ {
		unique := make(map[string]struct{})
		missing := 0
		for r := range parsed {
			v := parsed[r][c]
			if v == nil {
				missing++
				continue
			}
			unique[frame.CanonicalString(v)] = struct{}{}
		}

		meta := dataset.ColumnMeta{
			Name:         sheet.Headers[c],
			ColKey:       core.ColumnKey(keys[c]),
			UniqueCount:  len(unique),
			MissingCount: missing,
		}
		if numeric[c] {
			meta.DType = "float64"
			meta.VarType = detectNumericVarType(len(unique), len(parsed), cfg)
		} else {
			meta.DType = "text"
			meta.VarType = dataset.VarCategorical
		}
		columns[c] = meta
	}

	return f, columns
}

// detectNumericVarType labels a numeric column discrete when its
// cardinality is small in absolute or relative terms.
func detectNumericVarType(uniqueCount, rowCount int, cfg config.DataConfig) dataset.VarType {
	if rowCount == 0 {
		return dataset.VarDiscrete
	}
	if uniqueCount <= cfg.DiscreteThreshold {
		return dataset.VarDiscrete
	}
	if float64(uniqueCount)/float64(rowCount) <= cfg.DiscreteRatio {
		return dataset.VarDiscrete
	}
	return dataset.VarContinuous
}

func isMissingCell(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "na", "n/a", "nan", "null", "none", "-":
		return true
	}
	return false
}

var columnKeyStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// sanitizeColumnKeys turns display headers into stable snake_case
// keys: diacritics stripped, non-alphanumerics collapsed to
// underscores, a col_ prefix for leading digits, and numeric suffixes
// on collisions.
func sanitizeColumnKeys(headers []string) []string {
	seen := make(map[string]int, len(headers))
	keys := make([]string, len(headers))

	for i, header := range headers {
		key := sanitizeColumnKey(header)
		if key == "" {
			key = fmt.Sprintf("column_%d", i+1)
		}
		if n, dup := seen[key]; dup {
			seen[key] = n + 1
			key = fmt.Sprintf("%s_%d", key, n+1)
		}
		seen[key] = 1
		keys[i] = key
	}
	return keys
}

func sanitizeColumnKey(header string) string {
	if stripped, _, err := transform.String(columnKeyStripper, header); err == nil {
		header = stripped
	}

	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(header) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	key := strings.Trim(b.String(), "_")
	if key == "" {
		return ""
	}
	if key[0] >= '0' && key[0] <= '9' {
		key = "col_" + key
	}
	return key
}

func extOf(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return filename[idx:]
	}
	return ""
}
