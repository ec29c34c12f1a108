package chart

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/config"
)

const chartResponse = `{
  "status": "OK",
  "data": {
    "name": "Teddy",
    "year": 2003,
    "lat": 61.2,
    "lng": -149.9,
    "tz_str": "America/Anchorage",
    "zodiac_type": "Tropic",
    "sun": {"name":"Sun","quality":"Fixed","element":"Earth","sign":"Tau","sign_num":1,"position":0.8,"abs_pos":30.8,"emoji":"♉️","point_type":"Planet","house":"Eleventh_House","retrograde":false},
    "moon": {"name":"Moon","quality":"Cardinal","element":"Fire","sign":"Ari","sign_num":0,"position":12.5,"abs_pos":12.5,"emoji":"♈️","point_type":"Planet","house":"tenth_house","retrograde":false},
    "broken": {"name":"Chiron","sign":"Cap"},
    "houses_names_list": ["First_House"]
  }
}`

func TestExtractPlanets(t *testing.T) {
	var resp struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(chartResponse), &resp))

	planets := ExtractPlanets(resp.Data)
	require.Len(t, planets, 2)
	assert.Equal(t, "Moon", planets[0].Name)
	assert.Equal(t, "Sun", planets[1].Name)
	assert.Equal(t, 1, planets[1].SignNum)
	assert.Equal(t, "Eleventh_House", planets[1].House)
}

func TestFullSignName(t *testing.T) {
	assert.Equal(t, "Aries", FullSignName("Ari"))
	assert.Equal(t, "Pisces", FullSignName("pis"))
	assert.Equal(t, "Xyz", FullSignName("Xyz"))
}

func TestFullHouseName(t *testing.T) {
	assert.Equal(t, "First House", FullHouseName("first_house"))
	assert.Equal(t, "Eleventh House", FullHouseName("Eleventh_House"))
}

func TestClient_BirthChart(t *testing.T) {
	var got BirthChartRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v4/birth-chart", r.URL.Path)
		assert.Equal(t, "rapid-key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "astrologer.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(chartResponse))
	}))
	defer srv.Close()

	c := NewClient(config.ChartConfig{
		BaseURL:  srv.URL,
		APIKey:   "rapid-key",
		Host:     "astrologer.p.rapidapi.com",
		Timezone: "America/Anchorage",
	}, nil)

	birth := time.Date(2003, 4, 21, 7, 45, 0, 0, time.UTC)
	planets, err := c.BirthChart(context.Background(), c.NewSubject("Teddy", "Anchorage", birth, 61.2, -149.9))
	require.NoError(t, err)
	assert.Len(t, planets, 2)

	assert.Equal(t, Subject{
		Name: "Teddy", Year: 2003, Month: 4, Day: 21, Hour: 7, Minute: 45,
		Longitude: -149.9, Latitude: 61.2, City: "Anchorage",
		Timezone: "America/Anchorage", ZodiacType: "Tropic",
	}, got.Subject)
}

func TestClient_BirthChart_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"non 200", http.StatusForbidden, `{"message":"bad key"}`, func(t *testing.T, err error) {
			assert.Contains(t, err.Error(), "status 403")
		}},
		{"no data", http.StatusOK, `{"status":"OK"}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNoPlanetData)
		}},
		{"not json", http.StatusOK, `<html>`, func(t *testing.T, err error) {
			assert.Contains(t, err.Error(), "unmarshal")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(config.ChartConfig{BaseURL: srv.URL}, nil)
			_, err := c.BirthChart(context.Background(), Subject{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
