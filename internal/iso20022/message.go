package iso20022

import (
	"strconv"
	"strings"
)

// Namespace of the setr.010.001.04 Securities Trade Confirmation schema.
const Namespace = "urn:iso:std:iso:20022:tech:xsd:setr.010.001.04"

// BuildMessage serializes an instrument and its ESG classification into a
// SETR Securities Trade Confirmation XML document. The output is
// byte-deterministic for a given input: fixed element order, fixed
// indentation, no timestamps or generated IDs, and locale-independent number
// formatting. Text content is escaped minimally and not re-encoded.
func BuildMessage(instrument Instrument, classification Classification) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<Document xmlns="` + Namespace + `">` + "\n")
	b.WriteString("  <SctiesTradConf>\n")
	b.WriteString("    <FinInstrmId>\n")
	b.WriteString("      <ISIN>" + escapeText(instrument.ISIN) + "</ISIN>\n")
	b.WriteString("      <LEI>" + escapeText(instrument.LEI) + "</LEI>\n")
	b.WriteString("      <Nm>" + escapeText(instrument.Name) + "</Nm>\n")
	b.WriteString("    </FinInstrmId>\n")
	b.WriteString("    <ESGClssfctn>\n")
	b.WriteString("      <TaxnmyAlgnmt>" + formatDecimal(classification.TaxonomyAlignment) + "</TaxnmyAlgnmt>\n")
	b.WriteString("      <SFDRArtcl>" + strconv.Itoa(classification.SFDRArticle) + "</SFDRArtcl>\n")
	b.WriteString("      <ERC8040Rtg>" + classification.RatingLabel + "</ERC8040Rtg>\n")
	if classification.CarbonIntensity != nil {
		b.WriteString("      <CarbonIntnsty>" + formatDecimal(*classification.CarbonIntensity) + "</CarbonIntnsty>\n")
	}
	b.WriteString("    </ESGClssfctn>\n")
	b.WriteString("  </SctiesTradConf>\n")
	b.WriteString("</Document>")

	return b.String()
}

// formatDecimal renders a decimal value with the shortest exact
// representation and no locale dependence: 92 stays "92", 30.5 stays "30.5".
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// escapeText applies the minimal XML escaping required for text content.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
