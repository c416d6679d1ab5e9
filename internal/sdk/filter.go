package sdk

import (
	"regexp"
	"strconv"
	"strings"
)

// Line is an SDK output line after filtering.
type Line struct {
	Text string
	// Summary is set when Text replaces a noisy line, e.g. a file list
	// collapsed to a count.
	Summary bool
}

var analyzeSetPattern = regexp.MustCompile(`Set\((\d+)\)`)

// compileLabels maps compile phases to short labels, checked in order.
var compileLabels = []struct {
	marker string
	label  string
}{
	{"Compile miniprogram", "Compiling mini program"},
	{"Compile jSON files", "Compiling config files"},
	{"Append babel helper files", "Adding babel helper files"},
	{"Seal code package", "Packing code"},
	{"Pack resource file finish", "Resource files packed"},
}

// FilterOutput collapses the SDK's verbose file listings. Noisy lines become
// a short summary or are dropped (ok is false); anything else passes through
// unchanged.
func FilterOutput(message string) (line Line, ok bool) {
	if !isNoisy(message) {
		return Line{Text: message}, true
	}

	if strings.Contains(message, "analyzing codes......Set(") {
		if m := analyzeSetPattern.FindStringSubmatch(message); m != nil {
			return Line{Text: "Analyzing code files (" + m[1] + " files)", Summary: true}, true
		}
	}

	if _, files, found := strings.Cut(message, "ignoring files:"); found {
		count := strings.Count(files, ",") + 1
		return Line{Text: "Ignoring files (" + strconv.Itoa(count) + " files)", Summary: true}, true
	}

	for _, c := range compileLabels {
		if strings.Contains(message, c.marker) {
			return Line{Text: c.label, Summary: true}, true
		}
	}

	return Line{}, false
}

func isNoisy(message string) bool {
	for _, marker := range []string{
		"analyzing codes......Set(",
		"ignoring files:",
		"miniprogram/miniprogram_npm/@vant/weapp/",
		"Compiling miniprogram_npm/@vant/weapp/",
		"[object Object]",
		"child process stdout:",
	} {
		if strings.Contains(message, marker) {
			return true
		}
	}

	if !strings.Contains(message, "Compiling") {
		return false
	}
	for _, ext := range []string{".js", ".wxml", ".wxss", ".wxs"} {
		if strings.Contains(message, ext) {
			return true
		}
	}
	return false
}
