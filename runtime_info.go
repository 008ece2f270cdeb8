// Copyright 2026 The ecom-sentry Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ecomsentry

import (
	"context"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/compute/metadata"
)

// RuntimeInfo describes the platform the process runs on. It feeds the
// default server name, release and tags of the SDK client when runtime
// detection is enabled.
type RuntimeInfo struct {
	Platform   string
	ServerName string
	Release    string
	ProjectID  string
	Tags       map[string]string
}

const metadataTimeout = 500 * time.Millisecond

// Indirections for tests.
var (
	onGCE             = metadata.OnGCE
	metadataProjectID = metadata.ProjectIDWithContext
	metadataInstance  = metadata.InstanceNameWithContext
	metadataZone      = metadata.ZoneWithContext
)

// DetectRuntimeInfo inspects well-known environment variables and, when
// nothing matches, the Compute Engine metadata server.
func DetectRuntimeInfo(ctx context.Context) RuntimeInfo {
	if info, ok := detectCloudRun(); ok {
		return info
	}
	if info, ok := detectAppEngine(); ok {
		return info
	}
	if info, ok := detectKubernetes(); ok {
		return info
	}
	if info, ok := detectComputeEngine(ctx); ok {
		return info
	}
	return RuntimeInfo{}
}

func detectCloudRun() (RuntimeInfo, bool) {
	service := trimmedEnv("K_SERVICE")
	revision := trimmedEnv("K_REVISION")
	if service == "" || revision == "" {
		return RuntimeInfo{}, false
	}
	info := RuntimeInfo{
		Platform:   "cloud_run",
		ServerName: service,
		Release:    revision,
		ProjectID:  trimmedEnv("GOOGLE_CLOUD_PROJECT"),
		Tags:       map[string]string{"platform": "cloud_run"},
	}
	if region := firstNonEmpty(trimmedEnv("CLOUD_RUN_REGION"), trimmedEnv("GOOGLE_CLOUD_REGION")); region != "" {
		info.Tags["region"] = region
	}
	return info, true
}

func detectAppEngine() (RuntimeInfo, bool) {
	service := trimmedEnv("GAE_SERVICE")
	version := trimmedEnv("GAE_VERSION")
	if service == "" && version == "" {
		return RuntimeInfo{}, false
	}
	return RuntimeInfo{
		Platform:   "app_engine",
		ServerName: firstNonEmpty(trimmedEnv("GAE_INSTANCE"), service),
		Release:    version,
		ProjectID:  strings.TrimPrefix(firstNonEmpty(trimmedEnv("GOOGLE_CLOUD_PROJECT"), trimmedEnv("GAE_APPLICATION")), "_"),
		Tags:       map[string]string{"platform": "app_engine"},
	}, true
}

func detectKubernetes() (RuntimeInfo, bool) {
	if trimmedEnv("KUBERNETES_SERVICE_HOST") == "" {
		return RuntimeInfo{}, false
	}
	info := RuntimeInfo{
		Platform:   "kubernetes",
		ServerName: firstNonEmpty(trimmedEnv("POD_NAME"), trimmedEnv("HOSTNAME")),
		Tags:       map[string]string{"platform": "kubernetes"},
	}
	if ns := firstNonEmpty(trimmedEnv("POD_NAMESPACE"), trimmedEnv("NAMESPACE")); ns != "" {
		info.Tags["k8s.namespace"] = ns
	}
	return info, true
}

func detectComputeEngine(ctx context.Context) (RuntimeInfo, bool) {
	if !onGCE() {
		return RuntimeInfo{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	info := RuntimeInfo{
		Platform: "compute_engine",
		Tags:     map[string]string{"platform": "compute_engine"},
	}
	if name, err := metadataInstance(ctx); err == nil {
		info.ServerName = strings.TrimSpace(name)
	}
	if pid, err := metadataProjectID(ctx); err == nil {
		info.ProjectID = strings.TrimSpace(pid)
	}
	if zone, err := metadataZone(ctx); err == nil && zone != "" {
		info.Tags["zone"] = zone
	}
	return info, true
}

// applyRuntimeInfo fills unset SDK options from info.
func applyRuntimeInfo(opts SDKOptions, info RuntimeInfo) SDKOptions {
	if opts.ServerName == "" {
		opts.ServerName = info.ServerName
	}
	if opts.Release == "" {
		opts.Release = info.Release
	}
	if len(info.Tags) == 0 && info.ProjectID == "" {
		return opts
	}
	tags := make(map[string]string, len(info.Tags)+len(opts.Tags)+1)
	for k, v := range info.Tags {
		tags[k] = v
	}
	if info.ProjectID != "" {
		tags["gcp.project"] = info.ProjectID
	}
	for k, v := range opts.Tags {
		tags[k] = v
	}
	opts.Tags = tags
	return opts
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
