// Package gitlab provides a thin resource client for GitLab-compatible REST
// APIs.
//
// It wraps branch, tag, merge request, group, project, and version endpoints
// with typed results, exposes HTTPError for status-classified failures, and
// normalizes base URLs the way operators usually paste them (host only,
// http scheme, missing /api/v4 prefix).
package gitlab
