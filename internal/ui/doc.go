// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// The shell ([Model]) draws a navbar, resolves paths through internal/router and mounts one
// controller per route:
//  1. [CatalogController] : every movie as a card
//  2. [DetailController] : one movie, its synopsis and showtimes
//  3. [AuthController] : the login form
//  4. [AdminController] : movie and schedule management behind the admin role
//
// Access-denied and not-found routes render static pages. Pressing "/" opens a path prompt that
// plays the part of a browser address bar.
//
// Network calls run as commands and come back as [Msg] values tagged with the issuing
// controller's mount id and a per-kind sequence number. The shell drops messages for controllers
// that are no longer mounted and each controller drops responses that a newer request superseded.
//
// The session store is injected through [Options] and only touched from the update loop.
package ui
