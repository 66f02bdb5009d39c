package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siamship/makesend-bridge/internal/geo"
)

func TestResolveProvinceISO(t *testing.T) {
	assert.Equal(t, 1, geo.ResolveProvince("TH-10"))
	assert.Equal(t, 1, geo.ResolveProvince("th-10"))
	assert.Equal(t, 15, geo.ResolveProvince("TH-50"))
	assert.Equal(t, 47, geo.ResolveProvince("TH-83"))
	assert.Equal(t, 7, geo.ResolveProvince("TH-S"))
}

func TestResolveProvinceThaiName(t *testing.T) {
	assert.Equal(t, 1, geo.ResolveProvince("กรุงเทพมหานคร"))
	assert.Equal(t, 1, geo.ResolveProvince("กรุงเทพ"))
	assert.Equal(t, 15, geo.ResolveProvince("เชียงใหม่"))
	assert.Equal(t, 47, geo.ResolveProvince("ภูเก็ต"))
}

func TestResolveProvinceEnglishName(t *testing.T) {
	assert.Equal(t, 1, geo.ResolveProvince("Bangkok"))
	assert.Equal(t, 1, geo.ResolveProvince("BANGKOK"))
	assert.Equal(t, 15, geo.ResolveProvince("chiang mai"))
	assert.Equal(t, 15, geo.ResolveProvince("Chiangmai"))
	assert.Equal(t, 47, geo.ResolveProvince("Phuket"))
	assert.Equal(t, 7, geo.ResolveProvince("Pattaya"))
}

func TestResolveProvinceNumericString(t *testing.T) {
	assert.Equal(t, 1, geo.ResolveProvince("1"))
	assert.Equal(t, 77, geo.ResolveProvince("77"))
	assert.Equal(t, geo.Unresolved, geo.ResolveProvince("0"))
	assert.Equal(t, geo.Unresolved, geo.ResolveProvince("78"))
	assert.Equal(t, geo.Unresolved, geo.ResolveProvince("-3"))
}

func TestResolveProvinceUnknown(t *testing.T) {
	assert.Equal(t, geo.Unresolved, geo.ResolveProvince(""))
	assert.Equal(t, geo.Unresolved, geo.ResolveProvince("   "))
	assert.Equal(t, geo.Unresolved, geo.ResolveProvince("Atlantis"))
	assert.Equal(t, geo.Unresolved, geo.ResolveProvince("TH-99"))
}

func TestResolveProvinceTrimsWhitespace(t *testing.T) {
	assert.Equal(t, 1, geo.ResolveProvince("  Bangkok  "))
	assert.Equal(t, 15, geo.ResolveProvince(" TH-50 "))
}

// The same province resolves to the same ID regardless of which alias
// format names it.
func TestResolveProvinceCrossFormatAgreement(t *testing.T) {
	cases := []struct {
		iso, thai, english string
	}{
		{"TH-10", "กรุงเทพมหานคร", "Bangkok"},
		{"TH-50", "เชียงใหม่", "Chiang Mai"},
		{"TH-83", "ภูเก็ต", "Phuket"},
		{"TH-11", "สมุทรปราการ", "Samut Prakan"},
	}
	for _, c := range cases {
		id := geo.ResolveProvince(c.iso)
		assert.NotEqual(t, geo.Unresolved, id, c.iso)
		assert.Equal(t, id, geo.ResolveProvince(c.thai), c.thai)
		assert.Equal(t, id, geo.ResolveProvince(c.english), c.english)
	}
}

func TestResolveProvinceNumeric(t *testing.T) {
	assert.Equal(t, 42, geo.ResolveProvinceNumeric(42))
	assert.Equal(t, 1, geo.ResolveProvinceNumeric(1))
	assert.Equal(t, 77, geo.ResolveProvinceNumeric(77))

	// Out-of-range identifiers are never clamped to the nearest bound.
	assert.Equal(t, geo.Unresolved, geo.ResolveProvinceNumeric(0))
	assert.Equal(t, geo.Unresolved, geo.ResolveProvinceNumeric(78))
	assert.Equal(t, geo.Unresolved, geo.ResolveProvinceNumeric(-1))
	assert.Equal(t, geo.Unresolved, geo.ResolveProvinceNumeric(1000))
}

func TestValidProvinceID(t *testing.T) {
	assert.True(t, geo.ValidProvinceID(1))
	assert.True(t, geo.ValidProvinceID(77))
	assert.False(t, geo.ValidProvinceID(0))
	assert.False(t, geo.ValidProvinceID(78))
}
