package components

import (
	"strconv"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

// Element ids targeted by HTMX swaps.
const (
	ResultID      = "qr-result"
	LogoPreviewID = "logo-preview"
	ToastsID      = "toasts"
)

const (
	inputClass  = "h-12 w-full rounded-md border-2 px-3 text-base transition-colors focus-visible:border-sky-600/50"
	buttonClass = "h-12 w-full rounded-md bg-sky-600 text-base font-semibold text-white shadow-lg transition-all hover:scale-105 hover:shadow-xl disabled:opacity-50"
	outlineBtn  = "flex-1 gap-2 rounded-md border-2 border-sky-600/20 bg-sky-600/5 font-semibold text-sky-700 hover:bg-sky-600/10"
)

// FormView is what the QR form needs to render one session.
type FormView struct {
	Text     string
	ColorHex string
	// Version of the displayed result; zero means nothing generated yet.
	ResultVersion int
	HasLogo       bool
	// LogoToken changes whenever a new logo is stored, to bust the preview cache.
	LogoToken string
	Brand     string
	BrandName string
}

// HasResult reports whether a generated code is displayed.
func (v FormView) HasResult() bool { return v.ResultVersion > 0 }

// BrandURL links the footer to the brand site.
func (v FormView) BrandURL() templ.SafeURL {
	return templ.SafeURL("https://" + v.Brand + "/")
}

// BrandLabel is the footer link text, the brand host when no name is set.
func (v FormView) BrandLabel() string {
	if v.BrandName != "" {
		return v.BrandName
	}
	return v.Brand
}

func (v FormView) resultSrc() string {
	return "/api/result.png?v=" + strconv.Itoa(v.ResultVersion)
}

func (v FormView) logoSrc() string {
	return "/api/logo.png?v=" + v.LogoToken
}

func colorInputClass() string {
	return twmerge.Merge(inputClass, "w-20 cursor-pointer p-1")
}

func logoButtonClass() string {
	return twmerge.Merge(outlineBtn, "relative flex cursor-pointer items-center justify-center")
}

func downloadClass() string {
	return twmerge.Merge(outlineBtn, "h-12 w-full flex-none")
}
