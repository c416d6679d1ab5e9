package config

// DefaultProfile is the environment profile used when none is selected.
const DefaultProfile = "development"

// GetDefaultConfigTemplate returns a commented project config template.
func GetDefaultConfigTemplate() string {
	return `# mpci configuration
# See 'mpci config -h' for commands. Environment variables override any key:
# MPCI_APPID, MPCI_ROBOT, MPCI_UPLOAD__DESC_FORMAT, ...

# Project
appid: ""                             # Mini Program AppID (or APPID env var)
project_name: ""
project_path: .                       # Project root containing project.config.json
miniprogram_root: miniprogram/        # Mini Program source directory
private_key_path: ""                  # Default: private.<appid>.key in the project root
ignores:
  - node_modules/**/*
  - .git/**/*
  - .vscode/**/*
  - "*.log"
  - private.*.key
  - mpci.yml

robot: 1                              # CI robot 1-30 (or ROBOT env var)
proxy: ""                             # Defaults to HTTPS_PROXY / HTTP_PROXY
state_dir: ~/.mpci/state              # Upload history location

# Compile settings
setting:
  use_project_config: true
  es6: true
  minified: true
  minify_wxss: true
  minify_wxml: true
  upload_with_source_map: false
  ignore_upload_unused_files: true

# Preview
preview:
  qrcode_format: terminal             # terminal | image | base64
  qrcode_output_dest: preview-qrcode.jpg
  page_path: ""                       # e.g. pages/index/index
  search_query: ""                    # e.g. a=1&b=2
  scene: 1001
  desc: Preview build

# Upload
upload:
  desc: Uploaded by CI
  version: 1.0.0                      # Fallback when package.json has no version
  version_env: VERSION                # Env var that overrides the version verbatim
  desc_format: detailed               # simple | detailed | changelog
  desc_max_length: 500
  include_hash: true
  commit_count: 5
  increment_type: patch               # major | minor | patch | auto
  auto_increment: true

# SDK command line
sdk:
  command: npx miniprogram-ci
  timeout: 10m

# History
history:
  max_entries: 100

# Desktop notifications for local runs, never sent in CI
notifications:
  enabled: false
  type: both                          # sound | visual | both
  on_command_complete: true
  on_rebuild: false                   # Each preview --watch rebuild
  on_error: true
  long_running_threshold: 30s         # Skip completion notices for shorter runs

# Environment profiles, selected by MPCI_ENV or NODE_ENV
env:
  development:
    desc: Development
    setting:
      minified: false
      upload_with_source_map: true
  staging:
    desc: Staging
    setting:
      minified: true
      upload_with_source_map: true
  production:
    desc: Production
    setting:
      minified: true
      upload_with_source_map: false
`
}

// GetDefaults returns the built-in configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"appid":            "",
		"project_name":     "",
		"project_path":     ".",
		"miniprogram_root": "miniprogram/",
		"private_key_path": "",
		"ignores": []string{
			"node_modules/**/*",
			".git/**/*",
			".vscode/**/*",
			"*.log",
			"private.*.key",
			"mpci.yml",
		},
		"robot":     1,
		"proxy":     "",
		"state_dir": "~/.mpci/state",
		"setting": map[string]interface{}{
			"use_project_config":         true,
			"es6":                        true,
			"minified":                   true,
			"minify_wxss":                true,
			"minify_wxml":                true,
			"upload_with_source_map":     false,
			"ignore_upload_unused_files": true,
		},
		"preview": map[string]interface{}{
			"qrcode_format":      "terminal",
			"qrcode_output_dest": "preview-qrcode.jpg",
			"page_path":          "",
			"search_query":       "",
			"scene":              1001,
			"desc":               "Preview build",
		},
		"upload": map[string]interface{}{
			"desc":            "Uploaded by CI",
			"version":         "1.0.0",
			"version_env":     "VERSION",
			"desc_format":     "detailed",
			"desc_max_length": 500,
			"include_hash":    true,
			"commit_count":    5,
			"increment_type":  "patch",
			"auto_increment":  true,
		},
		"sdk": map[string]interface{}{
			"command": "npx miniprogram-ci",
			"timeout": "10m",
		},
		"history": map[string]interface{}{
			"max_entries": 100,
		},
		"notifications": map[string]interface{}{
			"enabled":                false,
			"type":                   "both",
			"sound_file":             "",
			"on_command_complete":    true,
			"on_rebuild":             false,
			"on_error":               true,
			"long_running_threshold": "30s",
		},
	}
}
