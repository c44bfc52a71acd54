// Package models contains the GORM persistence models.
//
// Domain entities stay free of storage tags. Each model converts to and from its
// domain entity with ToDomain / FromDomain, and structured fields (feature lists,
// specification maps) are JSON-encoded here and nowhere else.
package models
