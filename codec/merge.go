package codec

import (
	"context"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/amp-iterator/envutil"
	"github.com/amp-labs/amp-iterator/errors"
	"github.com/amp-labs/amp-iterator/iterator"
	"github.com/amp-labs/amp-iterator/logger"
	"github.com/amp-labs/amp-iterator/value"
)

const defaultWorkers = 4

// LoadAll loads every location concurrently on a pool of CODEC_WORKERS
// workers (default 4). Results are in argument order. All failures are
// reported together and no documents are returned with them.
func LoadAll(ctx context.Context, locations []string, opts Options) ([]*value.Map, error) {
	if len(locations) == 0 {
		return nil, nil
	}

	workers := envutil.Int(ctx, "CODEC_WORKERS", envutil.Default(defaultWorkers)).ValueOrElse(defaultWorkers)
	workers = max(1, min(workers, len(locations)))

	logger.Get(ctx).Debug("loading documents", "count", len(locations), "workers", workers)

	pool := pond.NewPool(workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	out := make([]*value.Map, len(locations))
	tasks := make([]pond.Task, len(locations))

	for idx, location := range locations {
		tasks[idx] = pool.SubmitErr(func() error {
			m, err := Load(ctx, location, opts)
			if err != nil {
				return err
			}

			out[idx] = m

			return nil
		})
	}

	var errs errors.Collection

	for _, task := range tasks {
		errs.Add(task.Wait())
	}

	if errs.HasError() {
		return nil, errs.GetError()
	}

	return out, nil
}

// Merge loads every location and appends them, in argument order, into one
// container: later documents overwrite the values of keys already present
// and add their new keys at the end.
func Merge(ctx context.Context, locations []string, opts Options) (*value.Map, error) {
	docs, err := LoadAll(ctx, locations, opts)
	if err != nil {
		return nil, err
	}

	merged := iterator.New[string, value.Value]()
	for _, doc := range docs {
		merged.Append(doc)
	}

	return merged, nil
}
