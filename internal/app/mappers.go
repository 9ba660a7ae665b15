package app

import (
	"strconv"
	"strings"

	"marzi/internal/domain"
)

/********** alias registries (single source of truth) **********/

// The sheet columns have no enforced schema; casing drifts between
// deployments and numeric cells come back as strings. Each logical field
// lists the spellings seen in the wild, tried in order.

var packageAliases = map[string][]string{
	"id":          {"id", "ID", "Id"},
	"destination": {"destination", "Destination", "destination_slug"},
	"title":       {"title", "Title", "name"},
	"image":       {"image", "Image", "imageUrl", "image_url"},
	"days":        {"days", "Days"},
	"nights":      {"nights", "Nights"},
	"rating":      {"rating", "Rating", "stars"},
	"price":       {"price", "Price"},
	"overview":    {"overview", "Overview", "description"},
}

var itineraryAliases = map[string][]string{
	"packageId": {"packageId", "package_id", "packageid", "PackageId"},
	"day":       {"day", "Day"},
	"title":     {"title", "Title"},
	"bullets":   {"bullets", "Bullets", "points", "details"},
}

var itemAliases = map[string][]string{
	"packageId": {"packageId", "package_id", "packageid", "PackageId"},
	"item":      {"item", "Item", "text"},
}

var policyAliases = map[string][]string{
	"packageId": {"packageId", "package_id", "packageid", "PackageId"},
	"type":      {"type", "Type", "category"},
	"text":      {"text", "Text", "content"},
}

var destinationAliases = map[string][]string{
	"slug":        {"slug", "Slug"},
	"name":        {"name", "Name"},
	"subtitle":    {"subtitle", "Subtitle", "tagline"},
	"heroImage":   {"heroImage", "hero_image", "heroimage", "image"},
	"description": {"description", "Description"},
	"country":     {"country", "Country"},
}

/********** coercion helpers **********/

// strField returns the first non-empty string among the aliased keys, "" otherwise.
func strField(row map[string]any, aliases map[string][]string, field string) string {
	for _, k := range aliases[field] {
		switch v := row[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			// numeric cell where text was expected (e.g. an id column)
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

// intField coerces the first parseable value among the aliased keys to a
// non-negative int, returning def when every candidate is absent,
// unparseable, or negative. This is the single place upstream numeric
// mess is absorbed; downstream code never re-parses.
func intField(row map[string]any, aliases map[string][]string, field string, def int) int {
	for _, k := range aliases[field] {
		switch v := row[k].(type) {
		case float64:
			if n := int(v); n >= 0 {
				return n
			}
		case int:
			if v >= 0 {
				return v
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
			if s == "" {
				continue
			}
			if n, err := strconv.Atoi(s); err == nil && n >= 0 {
				return n
			}
			// "7.0" style cells
			if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
				return int(f)
			}
		}
	}
	return def
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/********** per-sheet mappers **********/

func mapPackage(row map[string]any) domain.Package {
	return domain.Package{
		ID:          strField(row, packageAliases, "id"),
		Destination: strField(row, packageAliases, "destination"),
		Title:       strField(row, packageAliases, "title"),
		Image:       strField(row, packageAliases, "image"),
		Days:        intField(row, packageAliases, "days", 0),
		Nights:      intField(row, packageAliases, "nights", 0),
		Rating:      intField(row, packageAliases, "rating", 4),
		Price:       intField(row, packageAliases, "price", 0),
		Overview:    strField(row, packageAliases, "overview"),
	}
}

func mapPackages(rows []map[string]any) []domain.Package {
	out := make([]domain.Package, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapPackage(r))
	}
	return out
}

func mapItinerary(rows []map[string]any) []domain.ItineraryItem {
	out := make([]domain.ItineraryItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ItineraryItem{
			PackageID: strField(r, itineraryAliases, "packageId"),
			Day:       intField(r, itineraryAliases, "day", 0),
			Title:     strField(r, itineraryAliases, "title"),
			Bullets:   strField(r, itineraryAliases, "bullets"),
		})
	}
	return out
}

func mapInclusions(rows []map[string]any) []domain.InclusionItem {
	out := make([]domain.InclusionItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.InclusionItem{
			PackageID: strField(r, itemAliases, "packageId"),
			Item:      strField(r, itemAliases, "item"),
		})
	}
	return out
}

func mapExclusions(rows []map[string]any) []domain.ExclusionItem {
	out := make([]domain.ExclusionItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ExclusionItem{
			PackageID: strField(r, itemAliases, "packageId"),
			Item:      strField(r, itemAliases, "item"),
		})
	}
	return out
}

func mapPolicies(rows []map[string]any) []domain.PolicyItem {
	out := make([]domain.PolicyItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.PolicyItem{
			PackageID: strField(r, policyAliases, "packageId"),
			Type:      domain.PolicyType(strings.ToLower(strField(r, policyAliases, "type"))),
			Text:      strField(r, policyAliases, "text"),
		})
	}
	return out
}

func mapDestinations(rows []map[string]any) []domain.Destination {
	out := make([]domain.Destination, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Destination{
			Slug:        strField(r, destinationAliases, "slug"),
			Name:        strField(r, destinationAliases, "name"),
			Subtitle:    strField(r, destinationAliases, "subtitle"),
			HeroImage:   strField(r, destinationAliases, "heroImage"),
			Description: strField(r, destinationAliases, "description"),
			Country:     ptrStr(strField(r, destinationAliases, "country")),
		})
	}
	return out
}

// leadRow shapes a validated form into the row appended to the leads
// sheet. date is stamped here, not by the caller.
func leadRow(form domain.LeadForm, date string) map[string]any {
	return map[string]any{
		"packageId": form.PackageID,
		"name":      form.Name,
		"email":     form.Email,
		"phone":     form.Phone,
		"message":   form.Message,
		"date":      date,
	}
}
