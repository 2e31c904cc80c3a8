// Package main provides the entry point of bobasettings.
// It persists typed settings groups as flat key/value records in memory,
// sqlite, mysql, postgres or redis, serves them through a fiber JSON API and
// manages them from the command line (settings, groups, import and export).
package main
