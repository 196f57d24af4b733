// Package config loads calendar-prereqs settings from a TOML file.
//
// Defaults target the University of Calgary 2020 calendar archive. A config
// file only needs to name the values it changes; everything else keeps its
// default, including the list of directory-page link labels that are not
// subjects.
package config
