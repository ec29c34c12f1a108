package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfile_Validate(t *testing.T) {
	bday := time.Date(2003, 4, 21, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{"ok", Profile{Name: "Teddy", Birthday: bday, BirthTime: "07:45"}, false},
		{"no birth time", Profile{Name: "Teddy", Birthday: bday}, false},
		{"blank name", Profile{Name: "  ", Birthday: bday}, true},
		{"no birthday", Profile{Name: "Teddy"}, true},
		{"bad birth time", Profile{Name: "Teddy", Birthday: bday, BirthTime: "7pm"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfile_BirthMoment(t *testing.T) {
	p := Profile{Birthday: time.Date(2003, 4, 21, 0, 0, 0, 0, time.UTC), BirthTime: "07:45"}
	assert.Equal(t, time.Date(2003, 4, 21, 7, 45, 0, 0, time.UTC), p.BirthMoment())

	p.BirthTime = ""
	assert.Equal(t, time.Date(2003, 4, 21, 0, 0, 0, 0, time.UTC), p.BirthMoment())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Partner ")
	assert.NoError(t, err)
	assert.Equal(t, KindPartner, k)

	_, err = ParseKind("rivalry")
	assert.Error(t, err)
}
