package sdk

import (
	"strconv"

	"github.com/yuuuuuyu/miniapp-template/internal/config"
)

// Project identifies the Mini Program being built.
type Project struct {
	AppID          string
	ProjectPath    string
	PrivateKeyPath string
	Ignores        []string
	Setting        config.Setting
	Proxy          string
}

// ProjectFromConfig builds a Project from the effective configuration.
func ProjectFromConfig(cfg *config.Configuration) Project {
	return Project{
		AppID:          cfg.AppID,
		ProjectPath:    cfg.ProjectPath,
		PrivateKeyPath: cfg.PrivateKeyPath,
		Ignores:        cfg.Ignores,
		Setting:        cfg.Setting,
		Proxy:          cfg.Proxy,
	}
}

// UploadRequest describes an upload.
type UploadRequest struct {
	Project
	Version string
	Desc    string
	Robot   int
}

// PreviewRequest describes a preview build.
type PreviewRequest struct {
	Project
	Desc             string
	Robot            int
	QRCodeFormat     string
	QRCodeOutputDest string
	PagePath         string
	SearchQuery      string
	Scene            int
}

// PackNpmRequest describes an npm build of miniprogram_npm.
type PackNpmRequest struct {
	Project
}

func (p Project) args() []string {
	args := []string{
		"--pp", p.ProjectPath,
		"--pkp", p.PrivateKeyPath,
		"--appid", p.AppID,
	}
	for _, glob := range p.Ignores {
		args = append(args, "--ignores", glob)
	}
	if p.Proxy != "" {
		args = append(args, "--proxy", p.Proxy)
	}
	return args
}

func settingArgs(s config.Setting) []string {
	return []string{
		"--use-project-config", strconv.FormatBool(s.UseProjectConfig),
		"--enable-es6", strconv.FormatBool(s.ES6),
		"--enable-minify", strconv.FormatBool(s.Minified),
		"--enable-minifyWXSS", strconv.FormatBool(s.MinifyWXSS),
		"--enable-minifyWXML", strconv.FormatBool(s.MinifyWXML),
		"--upload-with-source-map", strconv.FormatBool(s.UploadWithSourceMap),
		"--ignore-upload-unused-files", strconv.FormatBool(s.IgnoreUploadUnusedFiles),
	}
}

func (r UploadRequest) args() []string {
	args := append([]string{"upload"}, r.Project.args()...)
	args = append(args,
		"--uv", r.Version,
		"--ud", r.Desc,
		"-r", strconv.Itoa(r.Robot),
	)
	return append(args, settingArgs(r.Setting)...)
}

func (r PreviewRequest) args() []string {
	args := append([]string{"preview"}, r.Project.args()...)
	if r.Desc != "" {
		args = append(args, "--ud", r.Desc)
	}
	if r.Robot > 0 {
		args = append(args, "-r", strconv.Itoa(r.Robot))
	}
	if r.QRCodeFormat != "" {
		args = append(args, "--qrcode-format", r.QRCodeFormat)
	}
	if r.QRCodeOutputDest != "" {
		args = append(args, "--qrcode-output-dest", r.QRCodeOutputDest)
	}
	if r.PagePath != "" {
		args = append(args, "--preview-page-path", r.PagePath)
	}
	if r.SearchQuery != "" {
		args = append(args, "--preview-search-query", r.SearchQuery)
	}
	if r.Scene > 0 {
		args = append(args, "--scene", strconv.Itoa(r.Scene))
	}
	return append(args, settingArgs(r.Setting)...)
}

func (r PackNpmRequest) args() []string {
	return append([]string{"pack-npm"}, r.Project.args()...)
}
