// Package model defines the fixed allow-list of chat models a session may
// use. Models are selected once per session, usually by short alias; the
// model's provider determines which gateway backend serves the request.
package model
