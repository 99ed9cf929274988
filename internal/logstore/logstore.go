package logstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gachalog/gachastats/internal/core/model"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// maxParallelFiles bounds concurrent file reads in LoadDir.
const maxParallelFiles = 4

// ErrNoLogs is returned when a directory holds no log files.
var ErrNoLogs = errors.New("no log files found")

// Dataset is a decoded log export: app descriptors plus logs keyed by appId.
type Dataset struct {
	Apps []model.AppDescriptor
	Logs model.LogsByApp
}

// rawLog is the wire shape of a daily log. Numeric fields are decoded
// loosely because exports carry numbers, numeric strings or null.
type rawLog struct {
	AppID          string             `json:"app_id"`
	Date           string             `json:"date"`
	TotalPulls     interface{}        `json:"total_pulls"`
	DischargeItems interface{}        `json:"discharge_items"`
	Expense        interface{}        `json:"expense"`
	DropDetails    []model.DropDetail `json:"drop_details"`
	Tags           []string           `json:"tags"`
	FreeText       string             `json:"free_text"`
}

func (r rawLog) toModel(defaultAppID string) model.DailyLog {
	appID := r.AppID
	if appID == "" {
		appID = defaultAppID
	}
	return model.DailyLog{
		AppID:          appID,
		Date:           r.Date,
		TotalPulls:     model.ExtractInt(r.TotalPulls),
		DischargeItems: model.ExtractInt(r.DischargeItems),
		Expense:        model.ExtractDecimal(r.Expense),
		DropDetails:    r.DropDetails,
		Tags:           r.Tags,
		FreeText:       r.FreeText,
	}
}

// rawExport is the wire shape of a full export.
type rawExport struct {
	Apps []model.AppDescriptor `json:"apps"`
	Logs map[string][]rawLog   `json:"logs"`
}

// Decode parses one export. data is either {"apps": [...], "logs": {appId: [...]}}
// or a bare array of daily logs. Logs without app_id take defaultAppID.
func Decode(data []byte, defaultAppID string) (*Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty log export")
	}

	ds := &Dataset{Logs: model.LogsByApp{}}
	if trimmed[0] == '[' {
		var logs []rawLog
		if err := sonic.Unmarshal(trimmed, &logs); err != nil {
			return nil, fmt.Errorf("decode log array: %w", err)
		}
		for _, r := range logs {
			l := r.toModel(defaultAppID)
			ds.Logs[l.AppID] = append(ds.Logs[l.AppID], l)
		}
	} else {
		var export rawExport
		if err := sonic.Unmarshal(trimmed, &export); err != nil {
			return nil, fmt.Errorf("decode log export: %w", err)
		}
		ds.Apps = export.Apps
		for key, logs := range export.Logs {
			for _, r := range logs {
				l := r.toModel(key)
				ds.Logs[l.AppID] = append(ds.Logs[l.AppID], l)
			}
		}
	}

	ds.fillMissingApps()
	return ds, nil
}

// fillMissingApps appends a descriptor, named after its id, for every
// appId that has logs but no descriptor. Added apps are sorted by id.
func (d *Dataset) fillMissingApps() {
	known := lo.SliceToMap(d.Apps, func(a model.AppDescriptor) (string, struct{}) {
		return a.AppID, struct{}{}
	})
	var missing []string
	for appID := range d.Logs {
		if _, ok := known[appID]; !ok {
			missing = append(missing, appID)
		}
	}
	sort.Strings(missing)
	for _, appID := range missing {
		d.Apps = append(d.Apps, model.AppDescriptor{AppID: appID, Name: appID})
	}
}

// Merge appends other into d. Descriptors already present are kept.
func (d *Dataset) Merge(other *Dataset) {
	seen := lo.SliceToMap(d.Apps, func(a model.AppDescriptor) (string, struct{}) {
		return a.AppID, struct{}{}
	})
	for _, app := range other.Apps {
		if _, ok := seen[app.AppID]; ok {
			continue
		}
		seen[app.AppID] = struct{}{}
		d.Apps = append(d.Apps, app)
	}
	if d.Logs == nil {
		d.Logs = model.LogsByApp{}
	}
	for appID, logs := range other.Logs {
		d.Logs[appID] = append(d.Logs[appID], logs...)
	}
}

// LoadFile reads and decodes one export. Logs without app_id are assigned
// to an app named after the file.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading log file %s: %w", path, err)
	}
	ds, err := Decode(data, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("log file %s: %w", path, err)
	}
	return ds, nil
}

// LoadDir loads every *.json file in dir concurrently and merges them in
// file name order.
func LoadDir(ctx context.Context, dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading log dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoLogs, dir)
	}

	results := make([]*Dataset, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFiles)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ds, err := LoadFile(path)
			if err != nil {
				return err
			}
			results[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Dataset{Logs: model.LogsByApp{}}
	for i, ds := range results {
		merged.Merge(ds)
		slog.Debug("Loaded log file", "path", paths[i], "apps", len(ds.Apps))
	}
	return merged, nil
}

// Load dispatches to LoadDir or LoadFile depending on what path is.
func Load(ctx context.Context, path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("log path: %w", err)
	}
	if info.IsDir() {
		return LoadDir(ctx, path)
	}
	return LoadFile(path)
}
