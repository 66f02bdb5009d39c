// Package geo resolves heterogeneous Thai address representations (postal
// codes, ISO 3166-2:TH codes, Thai and English free-text province names,
// numeric carrier IDs) into the carrier's province/district identifier
// space. Absence of a mapping is never an error: unresolved values are
// reported as zero and callers apply their own fallback.
package geo

import (
	"strconv"
	"strings"
)

// Unresolved is the zero value returned when no mapping exists.
const Unresolved = 0

// FallbackPlaceID is the routing place substituted for an unresolved
// province or district. Makesend accepts it and routes manually.
const FallbackPlaceID = 1

// MaxProvinceID is the highest carrier province ID. Provinces are numbered
// 1 through 77.
const MaxProvinceID = 77

// ValidProvinceID reports whether id is inside the carrier's province range.
func ValidProvinceID(id int) bool {
	return id >= 1 && id <= MaxProvinceID
}

// ResolveProvinceNumeric passes a numeric carrier ID through when it is in
// range, and returns Unresolved otherwise. Out-of-range values are never
// clamped.
func ResolveProvinceNumeric(id int) int {
	if ValidProvinceID(id) {
		return id
	}
	return Unresolved
}

// ResolveProvince resolves a free-form province field to a carrier province
// ID. The input is trimmed and tried in fixed order: ISO 3166-2:TH code
// ("TH-XX" or bare "XX"), Thai name exact match, English name
// case-insensitive match, then a plain-integer parse. The first match wins;
// no match resolves to Unresolved.
func ResolveProvince(input string) int {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Unresolved
	}

	if id := resolveISOCode(trimmed); id != Unresolved {
		return id
	}
	if id := resolveProvinceName(trimmed); id != Unresolved {
		return id
	}
	if n, err := strconv.Atoi(trimmed); err == nil && ValidProvinceID(n) {
		return n
	}
	return Unresolved
}

// resolveISOCode maps an ISO 3166-2:TH code ("TH-50", "th-50", "50", "S")
// to a carrier province ID.
func resolveISOCode(code string) int {
	iso := strings.ToUpper(code)
	iso = strings.TrimPrefix(iso, "TH-")
	if id, ok := isoToProvince[iso]; ok {
		return id
	}
	return Unresolved
}

// resolveProvinceName maps a Thai (exact) or English (case-insensitive)
// province name to a carrier province ID.
func resolveProvinceName(name string) int {
	if id, ok := thaiNameToProvince[name]; ok {
		return id
	}
	if id, ok := englishNameToProvince[strings.ToLower(name)]; ok {
		return id
	}
	return Unresolved
}

// isoToProvince maps ISO 3166-2:TH numeric codes (without the "TH-"
// prefix) to carrier province IDs.
var isoToProvince = map[string]int{
	// Central Thailand
	"10": 1,  // Bangkok
	"11": 2,  // Samut Prakan
	"12": 4,  // Nonthaburi
	"13": 3,  // Pathum Thani
	"14": 41, // Phra Nakhon Si Ayutthaya
	"15": 70, // Ang Thong
	"16": 54, // Lop Buri
	"17": 63, // Sing Buri
	"18": 26, // Chai Nat
	"19": 62, // Saraburi
	"20": 7,  // Chon Buri
	"21": 76, // Rayong
	"22": 24, // Chanthaburi
	"23": 30, // Trat
	"24": 25, // Chachoengsao
	"25": 39, // Prachin Buri
	"26": 32, // Nakhon Nayok
	"27": 61, // Sa Kaeo

	// Northeastern Thailand
	"30": 8,  // Nakhon Ratchasima
	"31": 38, // Buri Ram
	"32": 67, // Surin
	"33": 57, // Si Sa Ket
	"34": 75, // Ubon Ratchathani
	"35": 50, // Yasothon
	"36": 27, // Chaiyaphum
	"37": 71, // Amnat Charoen
	"38": 37, // Bueng Kan
	"39": 69, // Nong Bua Lam Phu
	"40": 13, // Khon Kaen
	"41": 72, // Udon Thani
	"42": 17, // Loei
	"43": 68, // Nong Khai
	"44": 48, // Maha Sarakham
	"45": 52, // Roi Et
	"46": 22, // Kalasin
	"47": 58, // Sakon Nakhon
	"48": 33, // Nakhon Phanom
	"49": 49, // Mukdahan

	// Northern Thailand
	"50": 15, // Chiang Mai
	"51": 56, // Lamphun
	"52": 55, // Lampang
	"53": 73, // Uttaradit
	"54": 18, // Phrae
	"55": 36, // Nan
	"56": 42, // Phayao
	"57": 77, // Chiang Rai
	"58": 19, // Mae Hong Son
	"60": 34, // Nakhon Sawan
	"61": 74, // Uthai Thani
	"62": 23, // Kamphaeng Phet
	"63": 31, // Tak
	"64": 64, // Sukhothai
	"65": 46, // Phitsanulok
	"66": 45, // Phichit
	"67": 16, // Phetchabun

	// Western Thailand
	"70": 10, // Ratchaburi
	"71": 21, // Kanchanaburi
	"72": 65, // Suphan Buri
	"73": 5,  // Nakhon Pathom
	"74": 6,  // Samut Sakhon
	"75": 9,  // Samut Songkhram
	"76": 11, // Phetchaburi
	"77": 12, // Prachuap Khiri Khan

	// Southern Thailand
	"80": 14, // Nakhon Si Thammarat
	"81": 20, // Krabi
	"82": 43, // Phang Nga
	"83": 47, // Phuket
	"84": 66, // Surat Thani
	"85": 53, // Ranong
	"86": 28, // Chumphon
	"90": 59, // Songkhla
	"91": 60, // Satun
	"92": 29, // Trang
	"93": 44, // Phatthalung
	"94": 40, // Pattani
	"95": 51, // Yala
	"96": 35, // Narathiwat

	// Special administrative city, part of Chon Buri
	"S": 7, // Pattaya
}

// thaiNameToProvince maps Thai province names to carrier province IDs.
var thaiNameToProvince = map[string]int{
	"กรุงเทพ":         1,
	"กรุงเทพมหานคร":   1,
	"สมุทรปราการ":     2,
	"ปทุมธานี":        3,
	"นนทบุรี":         4,
	"นครปฐม":          5,
	"สมุทรสาคร":       6,
	"ชลบุรี":          7,
	"นครราชสีมา":      8,
	"สมุทรสงคราม":     9,
	"ราชบุรี":         10,
	"เพชรบุรี":        11,
	"ประจวบคีรีขันธ์": 12,
	"ขอนแก่น":         13,
	"นครศรีธรรมราช":   14,
	"เชียงใหม่":       15,
	"เพชรบูรณ์":       16,
	"เลย":             17,
	"แพร่":            18,
	"แม่ฮ่องสอน":      19,
	"กระบี่":          20,
	"กาญจนบุรี":       21,
	"กาฬสินธุ์":       22,
	"กำแพงเพชร":       23,
	"จันทบุรี":        24,
	"ฉะเชิงเทรา":      25,
	"ชัยนาท":          26,
	"ชัยภูมิ":         27,
	"ชุมพร":           28,
	"ตรัง":            29,
	"ตราด":            30,
	"ตาก":             31,
	"นครนายก":         32,
	"นครพนม":          33,
	"นครสวรรค์":       34,
	"นราธิวาส":        35,
	"น่าน":            36,
	"บึงกาฬ":          37,
	"บุรีรัมย์":       38,
	"ปราจีนบุรี":      39,
	"ปัตตานี":         40,
	"พระนครศรีอยุธยา": 41,
	"พะเยา":           42,
	"พังงา":           43,
	"พัทลุง":          44,
	"พิจิตร":          45,
	"พิษณุโลก":        46,
	"ภูเก็ต":          47,
	"มหาสารคาม":       48,
	"มุกดาหาร":        49,
	"ยโสธร":           50,
	"ยะลา":            51,
	"ร้อยเอ็ด":        52,
	"ระนอง":           53,
	"ลพบุรี":          54,
	"ลำปาง":           55,
	"ลำพูน":           56,
	"ศรีสะเกษ":        57,
	"สกลนคร":          58,
	"สงขลา":           59,
	"สตูล":            60,
	"สระแก้ว":         61,
	"สระบุรี":         62,
	"สิงห์บุรี":       63,
	"สุโขทัย":         64,
	"สุพรรณบุรี":      65,
	"สุราษฎร์ธานี":    66,
	"สุรินทร์":        67,
	"หนองคาย":         68,
	"หนองบัวลำภู":     69,
	"อ่างทอง":         70,
	"อำนาจเจริญ":      71,
	"อุดรธานี":        72,
	"อุตรดิตถ์":       73,
	"อุทัยธานี":       74,
	"อุบลราชธานี":     75,
	"ระยอง":           76,
	"เชียงราย":        77,
}

// englishNameToProvince maps lower-cased English province names, including
// common joined spellings, to carrier province IDs.
var englishNameToProvince = map[string]int{
	"bangkok":                 1,
	"krung thep":              1,
	"samut prakan":            2,
	"pathum thani":            3,
	"nonthaburi":              4,
	"nakhon pathom":           5,
	"samut sakhon":            6,
	"chon buri":               7,
	"chonburi":                7,
	"nakhon ratchasima":       8,
	"korat":                   8,
	"samut songkhram":         9,
	"ratchaburi":              10,
	"phetchaburi":             11,
	"prachuap khiri khan":     12,
	"khon kaen":               13,
	"nakhon si thammarat":     14,
	"chiang mai":              15,
	"chiangmai":               15,
	"phetchabun":              16,
	"loei":                    17,
	"phrae":                   18,
	"mae hong son":            19,
	"krabi":                   20,
	"kanchanaburi":            21,
	"kalasin":                 22,
	"kamphaeng phet":          23,
	"chanthaburi":             24,
	"chachoengsao":            25,
	"chai nat":                26,
	"chaiyaphum":              27,
	"chumphon":                28,
	"trang":                   29,
	"trat":                    30,
	"tak":                     31,
	"nakhon nayok":            32,
	"nakhon phanom":           33,
	"nakhon sawan":            34,
	"narathiwat":              35,
	"nan":                     36,
	"bueng kan":               37,
	"buri ram":                38,
	"buriram":                 38,
	"prachin buri":            39,
	"pattani":                 40,
	"phra nakhon si ayutthaya": 41,
	"ayutthaya":                41,
	"phayao":                   42,
	"phang nga":                43,
	"phangnga":                 43,
	"phatthalung":              44,
	"phichit":                  45,
	"phitsanulok":              46,
	"phuket":                   47,
	"maha sarakham":            48,
	"mukdahan":                 49,
	"yasothon":                 50,
	"yala":                     51,
	"roi et":                   52,
	"ranong":                   53,
	"lop buri":                 54,
	"lopburi":                  54,
	"lampang":                  55,
	"lamphun":                  56,
	"si sa ket":                57,
	"sisaket":                  57,
	"sakon nakhon":             58,
	"songkhla":                 59,
	"satun":                    60,
	"sa kaeo":                  61,
	"saraburi":                 62,
	"sing buri":                63,
	"sukhothai":                64,
	"suphan buri":              65,
	"surat thani":              66,
	"surin":                    67,
	"nong khai":                68,
	"nong bua lam phu":         69,
	"ang thong":                70,
	"amnat charoen":            71,
	"udon thani":               72,
	"uttaradit":                73,
	"uthai thani":              74,
	"ubon ratchathani":         75,
	"rayong":                   76,
	"chiang rai":               77,
	"chiangrai":                77,
	"pattaya":                  7, // special city in Chon Buri
}
