package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Reference data file names, as shipped by the carrier.
const (
	postalFile     = "thailand_addresses.json"
	districtFile   = "district.json"
	provinceFile   = "province.json"
	parcelSizeFile = "parcelSizeList.json"
)

// Province is one row of the carrier's province reference table.
type Province struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// District is one row of the carrier's district reference table.
type District struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ProvinceID int    `json:"provinceId"`
}

// ParcelSizeInfo is one row of the carrier's parcel size table.
type ParcelSizeInfo struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Size string `json:"size"`
}

// PostalCodeEntry is one immutable row of the Thailand address table. One
// postal code may map to multiple entries: many sub-districts share a code.
type PostalCodeEntry struct {
	SubDistrict     string `json:"district"`
	District        string `json:"amphoe"`
	Province        string `json:"province"`
	PostalCode      int    `json:"zipcode"`
	SubDistrictCode int    `json:"district_code"`
	DistrictCode    int    `json:"amphoe_code"`
	ProvinceCode    int    `json:"province_code"` // ISO-style two-digit code
}

// tableFile is the carrier's column-array JSON envelope for the province,
// district and parcel-size files.
type tableFile struct {
	Header  []string          `json:"header"`
	Body    []json.RawMessage `json:"body"`
	ResCode int               `json:"resCode"`
	Message string            `json:"message"`
}

// Resolver holds the read-only reference tables and answers geography
// lookups. Tables load at most once and are never mutated afterwards, so
// concurrent readers need no locking.
type Resolver struct {
	dataDir string
	logger  *otelzap.Logger

	once sync.Once

	provinces   []Province
	districts   []District
	parcelSizes []ParcelSizeInfo

	byZipcode     map[int][]PostalCodeEntry
	districtIndex map[int]map[string]int // provinceID -> district name -> district ID
}

// NewResolver creates a resolver reading reference data from dataDir.
// An empty dataDir triggers the multi-path search in FindDataDir. Tables
// load lazily on first use; missing files degrade to empty tables with an
// error log, never a panic.
func NewResolver(dataDir string, logger *otelzap.Logger) *Resolver {
	return &Resolver{dataDir: dataDir, logger: logger}
}

// FindDataDir locates the reference data directory. The explicit path wins
// when set; otherwise ./data and a data directory beside the executable
// are tried. Returns "" when nothing exists.
func FindDataDir(explicit string) string {
	candidates := []string{}
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, "data")
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "data"))
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

func (r *Resolver) load() {
	r.once.Do(func() {
		dir := FindDataDir(r.dataDir)
		if dir == "" {
			r.logger.Error("Geo reference data directory not found",
				zap.String("configured", r.dataDir))
			r.byZipcode = map[int][]PostalCodeEntry{}
			r.districtIndex = map[int]map[string]int{}
			return
		}

		r.loadPostal(dir)
		r.loadDistricts(dir)
		r.loadProvinces(dir)
		r.loadParcelSizes(dir)

		r.logger.Info("Loaded geo reference tables",
			zap.String("dir", dir),
			zap.Int("postal_entries", len(r.byZipcode)),
			zap.Int("districts", len(r.districts)),
			zap.Int("provinces", len(r.provinces)),
		)
	})
}

func (r *Resolver) loadPostal(dir string) {
	r.byZipcode = map[int][]PostalCodeEntry{}

	raw, err := os.ReadFile(filepath.Join(dir, postalFile))
	if err != nil {
		r.logger.Error("Failed to read postal code table", zap.Error(err))
		return
	}

	var entries []PostalCodeEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		r.logger.Error("Failed to parse postal code table", zap.Error(err))
		return
	}

	for _, e := range entries {
		r.byZipcode[e.PostalCode] = append(r.byZipcode[e.PostalCode], e)
	}
}

func (r *Resolver) loadDistricts(dir string) {
	r.districtIndex = map[int]map[string]int{}

	rows, err := readTableFile(filepath.Join(dir, districtFile))
	if err != nil {
		r.logger.Error("Failed to load district table", zap.Error(err))
		return
	}

	for _, row := range rows {
		var rec [3]json.RawMessage
		if err := json.Unmarshal(row, &rec); err != nil {
			continue
		}
		var d District
		if json.Unmarshal(rec[0], &d.ID) != nil ||
			json.Unmarshal(rec[1], &d.Name) != nil ||
			json.Unmarshal(rec[2], &d.ProvinceID) != nil {
			continue
		}
		r.districts = append(r.districts, d)
		if r.districtIndex[d.ProvinceID] == nil {
			r.districtIndex[d.ProvinceID] = map[string]int{}
		}
		r.districtIndex[d.ProvinceID][d.Name] = d.ID
	}
}

func (r *Resolver) loadProvinces(dir string) {
	rows, err := readTableFile(filepath.Join(dir, provinceFile))
	if err != nil {
		r.logger.Error("Failed to load province table", zap.Error(err))
		return
	}

	for _, row := range rows {
		var rec [2]json.RawMessage
		if err := json.Unmarshal(row, &rec); err != nil {
			continue
		}
		var p Province
		if json.Unmarshal(rec[0], &p.ID) != nil || json.Unmarshal(rec[1], &p.Name) != nil {
			continue
		}
		r.provinces = append(r.provinces, p)
	}
}

func (r *Resolver) loadParcelSizes(dir string) {
	rows, err := readTableFile(filepath.Join(dir, parcelSizeFile))
	if err != nil {
		r.logger.Error("Failed to load parcel size table", zap.Error(err))
		return
	}

	for _, row := range rows {
		var rec [3]string
		if err := json.Unmarshal(row, &rec); err != nil {
			continue
		}
		r.parcelSizes = append(r.parcelSizes, ParcelSizeInfo{ID: rec[0], Code: rec[1], Size: rec[2]})
	}
}

func readTableFile(path string) ([]json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tf tableFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return tf.Body, nil
}

// Provinces returns the carrier province reference table.
func (r *Resolver) Provinces() []Province {
	r.load()
	return r.provinces
}

// Districts returns the carrier district table, filtered by province when
// provinceID is non-zero.
func (r *Resolver) Districts(provinceID int) []District {
	r.load()
	if provinceID == 0 {
		return r.districts
	}
	var out []District
	for _, d := range r.districts {
		if d.ProvinceID == provinceID {
			out = append(out, d)
		}
	}
	return out
}

// ParcelSizes returns the carrier parcel size table.
func (r *Resolver) ParcelSizes() []ParcelSizeInfo {
	r.load()
	return r.parcelSizes
}

// DistrictID resolves a district by exact name within a province. Returns
// Unresolved when the province is unresolved or the name has no match.
func (r *Resolver) DistrictID(name string, provinceID int) int {
	r.load()
	if provinceID == Unresolved {
		return Unresolved
	}
	if byName, ok := r.districtIndex[provinceID]; ok {
		if id, ok := byName[name]; ok {
			return id
		}
	}
	return Unresolved
}

// DistrictIDByName resolves a district by exact name across all provinces.
func (r *Resolver) DistrictIDByName(name string) int {
	r.load()
	for _, d := range r.districts {
		if d.Name == name {
			return d.ID
		}
	}
	return Unresolved
}
