// Package certs resolves certificate images stored under per-event folders.
package certs

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/xparky/portal/internal/adapters/drive"
	"github.com/xparky/portal/pkg/logger"
)

// pngFolderName is the event subfolder that, when present, supplies the
// authoritative certificate file set.
const pngFolderName = "png"

// pngSuffix filters direct event files when no png subfolder exists.
const pngSuffix = ".png"

// EventCatalog maps event names to their folder identifiers.
type EventCatalog map[string]string

// Names lists the catalog's event names sorted for presentation.
func (c EventCatalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Index maps lowercased certificate basenames to file identifiers within
// one event.
type Index map[string]string

// DisplayNames lists the index keys title-cased for presentation, sorted.
func (i Index) DisplayNames() []string {
	names := make([]string, 0, len(i))
	for key := range i {
		names = append(names, titleCase(key))
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a display name back to its file identifier. Matching is
// case-insensitive since index keys are stored lowercased.
func (i Index) Lookup(displayName string) (string, bool) {
	id, ok := i[strings.ToLower(displayName)]
	return id, ok
}

// Resolver locates certificate files beneath a root of event folders.
type Resolver struct {
	lister drive.Lister
	log    logger.Logger
}

// New creates a certificate resolver over one listing source.
func New(lister drive.Lister, opts ...Option) *Resolver {
	r := &Resolver{
		lister: lister,
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		r.log = logger.Get()
	}

	return r
}

// Events lists the immediate children of the certificates root as an event
// catalog. Children are taken as they come, folders and files alike. A
// listing failure yields an empty catalog, never an error.
func (r *Resolver) Events(ctx context.Context, rootFolderID string) EventCatalog {
	catalog := make(EventCatalog)

	children, err := r.lister.ListChildren(ctx, rootFolderID)
	if err != nil {
		r.log.Warn(ctx, "certificate root listing failed",
			logger.String("folder_id", rootFolderID),
			logger.Error(err),
		)
		return catalog
	}

	for _, child := range children {
		catalog[child.Name] = child.ID
	}
	return catalog
}

// Certificates resolves the certificate index for one event folder. A child
// folder named png supplies the file set when present; otherwise files
// directly in the event folder ending in .png are used. Keys are the
// lowercased portion of each file name before the first dot; names without
// a dot are excluded. Any listing failure yields an empty index.
func (r *Resolver) Certificates(ctx context.Context, eventFolderID string) Index {
	index := make(Index)

	children, err := r.lister.ListChildren(ctx, eventFolderID)
	if err != nil {
		r.log.Warn(ctx, "event folder listing failed",
			logger.String("folder_id", eventFolderID),
			logger.Error(err),
		)
		return index
	}

	files, ok := r.pngFolderContents(ctx, children)
	if !ok {
		return index
	}
	if files == nil {
		files = directPNGFiles(children)
	}

	for _, f := range files {
		name := strings.ToLower(f.Name)
		dot := strings.Index(name, ".")
		if dot < 0 {
			continue
		}
		index[name[:dot]] = f.ID
	}
	return index
}

// pngFolderContents lists the png subfolder when one exists. It returns
// (nil, true) when no such subfolder is present and (nil, false) when the
// subfolder exists but cannot be listed.
func (r *Resolver) pngFolderContents(ctx context.Context, children []drive.Entry) ([]drive.Entry, bool) {
	for _, child := range children {
		if !child.Folder || !strings.EqualFold(child.Name, pngFolderName) {
			continue
		}

		inner, err := r.lister.ListChildren(ctx, child.ID)
		if err != nil {
			r.log.Warn(ctx, "png subfolder listing failed",
				logger.String("folder_id", child.ID),
				logger.Error(err),
			)
			return nil, false
		}
		if inner == nil {
			inner = []drive.Entry{}
		}
		return inner, true
	}
	return nil, true
}

// directPNGFiles filters an event folder's own files down to PNG images.
func directPNGFiles(children []drive.Entry) []drive.Entry {
	files := make([]drive.Entry, 0, len(children))
	for _, child := range children {
		if child.Folder {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(child.Name), pngSuffix) {
			continue
		}
		files = append(files, child)
	}
	return files
}

// titleCase uppercases the first letter of every letter run and lowercases
// the rest, so "jane_doe" renders as "Jane_Doe".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}
