package model

// Package model defines domain data structures shared by the tools: quality
// tiers, conversion tasks with their status enum, release versions and the
// package manifest.
