package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/astro_companion/app/astro/pkg/compat"
)

func sampleReport() *compat.Report {
	return &compat.Report{
		Strengths:  compat.Section{Aspects: []compat.Aspect{{Title: "Trust", Description: "Solid <b>bond</b>."}}},
		Weaknesses: compat.Section{Aspects: []compat.Aspect{{Title: compat.UnknownTitle, Description: "Stubborn."}}},
		Tips:       []compat.Tip{{Tip: "Talk", Description: "Often."}, {Tip: "Travel", Description: "Together."}},
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, sampleReport())

	out := buf.String()
	assert.Contains(t, out, "== Strengths ==\n* Trust\n")
	assert.Contains(t, out, "* Unknown\n  Stubborn.")
	assert.Contains(t, out, "2. Travel\n   Together.")
}

func TestReportTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, reportTmpl.Execute(&buf, reportData{Title: "partner compatibility with Grace", Date: "2024-01-01", Report: sampleReport()}))

	out := buf.String()
	assert.Contains(t, out, "<h3>Trust</h3>")
	assert.Contains(t, out, "&lt;b&gt;bond&lt;/b&gt;")
	assert.Contains(t, out, "<strong>Talk</strong>: Often.")
}
