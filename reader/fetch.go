package reader

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vegasq/listview/view"
)

// fetchConcurrency bounds how many lists are read at once
const fetchConcurrency = 8

// Fetcher loads the rows and column metadata of catalog lists
type Fetcher struct {
	catalog *Catalog
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher over the lists of cat
func NewFetcher(cat *Catalog, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{catalog: cat, logger: logger}
}

// Fetch loads every source concurrently into a snapshot.
//
// It fails as a whole when any source fails or ctx is done before every
// list has been read, so callers never materialize a view over partial
// data. A list appearing twice in sources is read once.
func (f *Fetcher) Fetch(ctx context.Context, sources []view.Source) (view.Snapshot, error) {
	lists, err := distinctLists(sources)
	if err != nil {
		return view.Snapshot{}, err
	}

	snap := view.Snapshot{
		Rows:    make(map[string][]view.Row, len(lists)),
		Columns: make(map[string][]view.ColumnMetadata, len(lists)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for _, src := range lists {
		g.Go(func() error {
			rows, columns, err := f.FetchList(gctx, src)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.Rows[src.ListID] = rows
			snap.Columns[src.ListID] = columns
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return view.Snapshot{}, err
	}
	// A read finishing after the deadline still leaves the fetch late
	if err := ctx.Err(); err != nil {
		return view.Snapshot{}, err
	}
	return snap, nil
}

// distinctLists drops repeated sources. The snapshot is keyed by list ID,
// so a list ID used on two sites is rejected rather than merged.
func distinctLists(sources []view.Source) ([]view.Source, error) {
	sites := make(map[string]string, len(sources))
	lists := make([]view.Source, 0, len(sources))
	for _, src := range sources {
		if site, ok := sites[src.ListID]; ok {
			if site != src.SiteID {
				return nil, fmt.Errorf("%w: list ID %q is used by sources on sites %q and %q",
					view.ErrInvalidView, src.ListID, site, src.SiteID)
			}
			continue
		}
		sites[src.ListID] = src.SiteID
		lists = append(lists, src)
	}
	return lists, nil
}

// FetchList reads one list, tagging every row with its origin
func (f *Fetcher) FetchList(ctx context.Context, src view.Source) ([]view.Row, []view.ColumnMetadata, error) {
	list, err := f.catalog.Find(src.SiteID, src.ListID)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	raw, err := ReadMultipleFilesContext(ctx, list.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch list %s/%s: %w", src.SiteID, src.ListID, err)
	}

	columns, err := f.columns(list)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch list %s/%s: %w", src.SiteID, src.ListID, err)
	}

	name := src.ListName
	if name == "" {
		name = list.Name
	}

	rows := make([]view.Row, len(raw))
	for i, r := range raw {
		rows[i] = toRow(r, list.ListID, name, list.idColumn(), i)
	}

	f.logger.Debug("list fetched",
		"site", src.SiteID,
		"list", src.ListID,
		"rows", len(rows),
		"duration", time.Since(start))
	return rows, columns, nil
}

// Columns returns the column metadata of a list without reading its rows
func (f *Fetcher) Columns(siteID, listID string) ([]view.ColumnMetadata, error) {
	list, err := f.catalog.Find(siteID, listID)
	if err != nil {
		return nil, err
	}
	return f.columns(list)
}

// Schema returns the parquet schema of a list
func (f *Fetcher) Schema(siteID, listID string) ([]SchemaInfo, error) {
	list, err := f.catalog.Find(siteID, listID)
	if err != nil {
		return nil, err
	}
	return schemaOf(list)
}

func (f *Fetcher) columns(list ListSource) ([]view.ColumnMetadata, error) {
	infos, err := schemaOf(list)
	if err != nil {
		return nil, err
	}
	return ColumnsFor(list, infos), nil
}

// schemaOf reads the schema of the first shard; shards share one schema
func schemaOf(list ListSource) ([]SchemaInfo, error) {
	paths, err := ExpandPattern(list.Path)
	if err != nil {
		return nil, err
	}
	return ExtractSchemaInfo(paths[0])
}

// toRow converts a parquet row into a view row. The item ID comes from
// idColumn, falling back to the 1-based position of the row in the list.
func toRow(raw map[string]interface{}, listID, listName, idColumn string, index int) view.Row {
	fields := make(map[string]view.Value, len(raw))
	for k, v := range raw {
		fields[k] = view.ValueOf(v)
	}

	itemID := fields[idColumn].String()
	if itemID == "" {
		itemID = strconv.Itoa(index + 1)
	}

	return view.Row{
		SourceListID:   listID,
		SourceListName: listName,
		ItemID:         itemID,
		Fields:         fields,
	}
}

// Sources returns every list of the catalog as a view source
func (f *Fetcher) Sources() []view.Source {
	return f.catalog.Sources()
}
