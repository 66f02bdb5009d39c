package geo

// Location is a postal-code lookup result with names and carrier
// identifiers resolved together. Unresolvable identifiers are zero.
type Location struct {
	SubDistrict string `json:"subDistrict"`
	District    string `json:"district"`
	Province    string `json:"province"`
	PostalCode  int    `json:"postalCode"`
	ProvinceID  int    `json:"provinceId"`
	DistrictID  int    `json:"districtId"`
}

// LookupPostalCode returns every location sharing the given postal code,
// in table order. An unknown code yields an empty slice.
func (r *Resolver) LookupPostalCode(code int) []Location {
	r.load()

	entries := r.byZipcode[code]
	out := make([]Location, 0, len(entries))
	for _, e := range entries {
		provinceID := ResolveProvince(e.Province)
		out = append(out, Location{
			SubDistrict: e.SubDistrict,
			District:    e.District,
			Province:    e.Province,
			PostalCode:  e.PostalCode,
			ProvinceID:  provinceID,
			DistrictID:  r.DistrictID(e.District, provinceID),
		})
	}
	return out
}

// PrimaryLocation returns the first location for a postal code, the one
// Makesend treats as canonical when several sub-districts share the code.
func (r *Resolver) PrimaryLocation(code int) (Location, bool) {
	locs := r.LookupPostalCode(code)
	if len(locs) == 0 {
		return Location{}, false
	}
	return locs[0], true
}
