// Package chart 调用星盘接口并把响应整理为行星列表。
package chart

import (
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	dm "github.com/iWorld-y/astro_companion/app/astro/pkg/model"
)

// metadataKeys data 中不是行星的字段
var metadataKeys = map[string]struct{}{
	"utc_time":    {},
	"local_time":  {},
	"julian_day":  {},
	"name":        {},
	"month":       {},
	"hour":        {},
	"year":        {},
	"day":         {},
	"minute":      {},
	"lng":         {},
	"lat":         {},
	"tz_str":      {},
	"city":        {},
	"nation":      {},
	"zodiac_type": {},
}

var signNames = map[string]string{
	"ari": "Aries",
	"tau": "Taurus",
	"gem": "Gemini",
	"can": "Cancer",
	"leo": "Leo",
	"vir": "Virgo",
	"lib": "Libra",
	"sco": "Scorpio",
	"sag": "Sagittarius",
	"cap": "Capricorn",
	"aqu": "Aquarius",
	"pis": "Pisces",
}

// rawPlanet 用指针区分缺失字段
type rawPlanet struct {
	Name       *string  `json:"name"`
	Quality    *string  `json:"quality"`
	Element    *string  `json:"element"`
	Sign       *string  `json:"sign"`
	SignNum    *int     `json:"sign_num"`
	Position   *float64 `json:"position"`
	AbsPos     *float64 `json:"abs_pos"`
	Emoji      *string  `json:"emoji"`
	PointType  *string  `json:"point_type"`
	House      *string  `json:"house"`
	Retrograde *bool    `json:"retrograde"`
}

func (r *rawPlanet) complete() bool {
	return r.Name != nil && r.Quality != nil && r.Element != nil && r.Sign != nil &&
		r.SignNum != nil && r.Position != nil && r.AbsPos != nil && r.Emoji != nil &&
		r.PointType != nil && r.House != nil && r.Retrograde != nil
}

// ExtractPlanets 从 data 中挑出完整的行星对象，字段不全的条目直接跳过。
// 结果按黄道绝对位置排序。
func ExtractPlanets(data map[string]json.RawMessage) []dm.Planet {
	planets := make([]dm.Planet, 0, len(data))
	for key, value := range data {
		if _, skip := metadataKeys[key]; skip {
			continue
		}
		var rp rawPlanet
		if err := json.Unmarshal(value, &rp); err != nil || !rp.complete() {
			continue
		}
		planets = append(planets, dm.Planet{
			Name:       *rp.Name,
			Quality:    *rp.Quality,
			Element:    *rp.Element,
			Sign:       *rp.Sign,
			SignNum:    *rp.SignNum,
			Position:   *rp.Position,
			AbsPos:     *rp.AbsPos,
			Emoji:      *rp.Emoji,
			PointType:  *rp.PointType,
			House:      *rp.House,
			Retrograde: *rp.Retrograde,
		})
	}

	sort.Slice(planets, func(i, j int) bool {
		if planets[i].AbsPos != planets[j].AbsPos {
			return planets[i].AbsPos < planets[j].AbsPos
		}
		return planets[i].Name < planets[j].Name
	})
	return planets
}

// FullSignName 星座缩写转全称，未知缩写原样返回
func FullSignName(abbreviation string) string {
	if name, ok := signNames[strings.ToLower(abbreviation)]; ok {
		return name
	}
	return abbreviation
}

// FullHouseName first_house -> First House
func FullHouseName(abbreviation string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(abbreviation, "_", " "))
}
