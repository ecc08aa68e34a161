// Package shortcut implements a Shortcut (story tracking) connector using the
// endpoint interfaces. It exposes stories, groups, and categories as datasets
// and runs the tabular report query consumed by the BI host platform:
// paginated story search joined with the group directory, projected onto the
// requested report columns.
package shortcut
