// Package toast renders notification toasts for HTMX swaps.
package toast

import (
	"strconv"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

type Position string

const (
	PositionTopRight    Position = "top-right"
	PositionBottomRight Position = "bottom-right"
	PositionBottomLeft  Position = "bottom-left"
)

type Props struct {
	ID          string
	Title       string
	Description string
	Variant     Variant
	Position    Position
	// Duration in milliseconds before the toast hides itself. Zero keeps it open.
	Duration    int
	Dismissible bool
	// ShowIndicator draws a bar that shrinks over Duration.
	ShowIndicator bool
	Icon          bool
	Class         string
}

// ParseVariant maps form values to a variant, defaulting to success.
func ParseVariant(s string) Variant {
	switch s {
	case "error", "destructive":
		return VariantError
	case "warning":
		return VariantWarning
	case "info":
		return VariantInfo
	default:
		return VariantSuccess
	}
}

func variantClass(v Variant) string {
	switch v {
	case VariantError:
		return "border-red-300 bg-red-50 text-red-900"
	case VariantWarning:
		return "border-amber-300 bg-amber-50 text-amber-900"
	case VariantInfo:
		return "border-sky-300 bg-sky-50 text-sky-900"
	default:
		return "border-emerald-300 bg-emerald-50 text-emerald-900"
	}
}

func indicatorClass(v Variant) string {
	base := "absolute bottom-0 left-0 h-1 w-full rounded-b-xl"
	switch v {
	case VariantError:
		return base + " bg-red-400"
	case VariantWarning:
		return base + " bg-amber-400"
	case VariantInfo:
		return base + " bg-sky-400"
	default:
		return base + " bg-emerald-400"
	}
}

// iconPath is the SVG path of the variant's 24×24 stroke icon.
func iconPath(v Variant) string {
	switch v {
	case VariantError:
		return "M12 8v4m0 4h.01M21 12a9 9 0 1 1-18 0 9 9 0 0 1 18 0z"
	case VariantWarning:
		return "M12 9v4m0 4h.01M10.3 3.9 1.8 18a2 2 0 0 0 1.7 3h17a2 2 0 0 0 1.7-3L13.7 3.9a2 2 0 0 0-3.4 0z"
	case VariantInfo:
		return "M12 16v-4m0-4h.01M21 12a9 9 0 1 1-18 0 9 9 0 0 1 18 0z"
	default:
		return "M9 12l2 2 4-4m6 2a9 9 0 1 1-18 0 9 9 0 0 1 18 0z"
	}
}

func positionClass(p Position) string {
	switch p {
	case PositionTopRight:
		return "top-4 right-4"
	case PositionBottomLeft:
		return "bottom-4 left-4"
	default:
		return "bottom-4 right-4"
	}
}

func rootClass(p Props) string {
	return twmerge.Merge(
		"fixed z-50 w-80 overflow-hidden rounded-xl border-2 p-4 shadow-lg",
		positionClass(p.Position),
		variantClass(p.Variant),
		p.Class,
	)
}

func role(v Variant) string {
	if v == VariantError {
		return "alert"
	}
	return "status"
}

func showIndicator(p Props) bool {
	return p.ShowIndicator && p.Duration > 0
}

func duration(p Props) string {
	return strconv.Itoa(p.Duration)
}
