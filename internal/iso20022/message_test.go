package iso20022

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage_Golden(t *testing.T) {
	instrument := Instrument{
		ISIN: "US0000000001",
		LEI:  "5493001KJTIIGC8Y1R12",
		Name: "Green Bond 2030",
	}
	classification := Classification{
		TaxonomyAlignment: 85,
		SFDRArticle:       9,
		RatingLabel:       "AA",
	}

	want := `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:setr.010.001.04">
  <SctiesTradConf>
    <FinInstrmId>
      <ISIN>US0000000001</ISIN>
      <LEI>5493001KJTIIGC8Y1R12</LEI>
      <Nm>Green Bond 2030</Nm>
    </FinInstrmId>
    <ESGClssfctn>
      <TaxnmyAlgnmt>85</TaxnmyAlgnmt>
      <SFDRArtcl>9</SFDRArtcl>
      <ERC8040Rtg>AA</ERC8040Rtg>
    </ESGClssfctn>
  </SctiesTradConf>
</Document>`

	got := BuildMessage(instrument, classification)
	assert.Equal(t, want, got)

	assert.Contains(t, got, "<ERC8040Rtg>AA</ERC8040Rtg>")
	assert.Contains(t, got, "<SFDRArtcl>9</SFDRArtcl>")
}

func TestBuildMessage_Deterministic(t *testing.T) {
	instrument := Instrument{ISIN: "DE0001102580", LEI: "529900W18LQJJN6SJ336", Name: "Bund"}
	classification := Classification{TaxonomyAlignment: 30, SFDRArticle: 8, RatingLabel: "BB"}

	first := BuildMessage(instrument, classification)
	second := BuildMessage(instrument, classification)
	assert.Equal(t, first, second, "same inputs must produce byte-identical output")
}

func TestBuildMessage_CarbonIntensity(t *testing.T) {
	intensity := 125.0
	classification := Classification{
		TaxonomyAlignment: 0,
		SFDRArticle:       6,
		RatingLabel:       "B",
		CarbonIntensity:   &intensity,
	}

	got := BuildMessage(Instrument{ISIN: "XS0000000000"}, classification)
	assert.Contains(t, got, "      <CarbonIntnsty>125</CarbonIntnsty>\n")

	// The carbon element follows the rating element inside ESGClssfctn.
	ratingIdx := strings.Index(got, "<ERC8040Rtg>")
	carbonIdx := strings.Index(got, "<CarbonIntnsty>")
	closeIdx := strings.Index(got, "</ESGClssfctn>")
	assert.Greater(t, carbonIdx, ratingIdx)
	assert.Greater(t, closeIdx, carbonIdx)
}

func TestBuildMessage_EscapesText(t *testing.T) {
	instrument := Instrument{
		ISIN: "US0000000001",
		LEI:  "5493001KJTIIGC8Y1R12",
		Name: "Fonds <Vert> & Co",
	}
	classification := Classification{TaxonomyAlignment: 0, SFDRArticle: 6, RatingLabel: "D"}

	got := BuildMessage(instrument, classification)
	assert.Contains(t, got, "<Nm>Fonds &lt;Vert&gt; &amp; Co</Nm>")
	assert.NotContains(t, got, "<Vert>")
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "92", formatDecimal(92))
	assert.Equal(t, "30.5", formatDecimal(30.5))
	assert.Equal(t, "0", formatDecimal(0))
}
