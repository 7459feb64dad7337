package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// requiredFields are the top-level fields every submission must carry.
var requiredFields = []string{
	"customer_name",
	"email",
	"pickup_date",
	"pickup_window",
	"address",
	"items",
	"pricing",
}

// pricingFields are the fields every pricing sub-record must carry. The
// camelCase keys are the checkout wire format.
var pricingFields = []string{"duration", "monthlySubtotal", "handlingFee", "total"}

// Submission is a typed booking submission, built from an untyped payload
// once ValidateSubmission has accepted it.
type Submission struct {
	CustomerName    string
	Email           string
	PickupDate      string
	PickupWindow    string
	Address         string
	Items           []Item
	DurationMonths  int
	MonthlySubtotal float64
	HandlingFee     float64
	Total           float64
}

// ValidateSubmission checks an untyped submission payload against the
// structural and domain rules, returning every violation at once. An empty
// list means the payload is acceptable. Independent checks are never
// short-circuited so the caller can fix all problems in one round trip.
func ValidateSubmission(payload map[string]any) []string {
	var errs []string

	for _, field := range requiredFields {
		if _, ok := payload[field]; !ok {
			errs = append(errs, fmt.Sprintf("%s is required", field))
		}
	}

	if name := strings.TrimSpace(asString(payload["customer_name"])); name != "" && utf8.RuneCountInString(name) < 2 {
		errs = append(errs, "customer_name must be at least 2 characters")
	}

	if email := strings.TrimSpace(asString(payload["email"])); email != "" && !emailPattern.MatchString(strings.ToLower(email)) {
		errs = append(errs, "email is invalid")
	}

	if raw, ok := payload["items"]; ok {
		items, isList := raw.([]any)
		if !isList || len(items) < 1 {
			errs = append(errs, "items must contain at least one entry")
		} else {
			for idx, entry := range items {
				item, isObject := entry.(map[string]any)
				if !isObject {
					errs = append(errs, fmt.Sprintf("items[%d] must be an object", idx+1))
					continue
				}
				if itemType, _ := item["type"].(string); !ItemType(itemType).IsValid() {
					errs = append(errs, fmt.Sprintf("items[%d].type must be one of %v", idx+1, ItemTypeNames()))
				}
			}
		}
	}

	if pricing, ok := payload["pricing"].(map[string]any); ok && len(pricing) > 0 {
		for _, field := range pricingFields {
			if _, present := pricing[field]; !present {
				errs = append(errs, fmt.Sprintf("pricing.%s is required", field))
			}
		}
		if duration, numeric := asInt(valueOr(pricing, "duration", 0)); !numeric {
			errs = append(errs, "pricing.duration must be a number")
		} else if duration < 1 {
			errs = append(errs, "pricing.duration must be >= 1")
		}
	}

	return errs
}

// SubmissionFromPayload builds a typed Submission from a payload that has
// already passed ValidateSubmission.
func SubmissionFromPayload(payload map[string]any) Submission {
	rawItems, _ := payload["items"].([]any)
	items := make([]Item, 0, len(rawItems))
	for _, entry := range rawItems {
		item, _ := entry.(map[string]any)
		items = append(items, Item{
			Type:       ItemType(asString(item["type"])),
			Name:       strings.TrimSpace(asString(item["name"])),
			StorageKey: asString(item["s3Key"]),
		})
	}

	pricing, _ := payload["pricing"].(map[string]any)
	duration, _ := asInt(pricing["duration"])
	monthlySubtotal, _ := asFloat(pricing["monthlySubtotal"])
	handlingFee, _ := asFloat(pricing["handlingFee"])
	total, _ := asFloat(pricing["total"])

	return Submission{
		CustomerName:    strings.TrimSpace(asString(payload["customer_name"])),
		Email:           strings.ToLower(strings.TrimSpace(asString(payload["email"]))),
		PickupDate:      asString(payload["pickup_date"]),
		PickupWindow:    asString(payload["pickup_window"]),
		Address:         strings.TrimSpace(asString(payload["address"])),
		Items:           items,
		DurationMonths:  duration,
		MonthlySubtotal: monthlySubtotal,
		HandlingFee:     handlingFee,
		Total:           total,
	}
}

// --- Untyped payload coercion ---

func valueOr(record map[string]any, key string, fallback any) any {
	if v, ok := record[key]; ok {
		return v
	}
	return fallback
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
