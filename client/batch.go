package client

import (
	"context"
	"sync"
)

// LabelBatch classifies multiple posts concurrently with a bounded
// worker pool. Outputs are returned in input order; a failure on one
// post is recorded in its output and does not stop the rest.
func (s *Service) LabelBatch(ctx context.Context, inputs []LabelInput) []LabelOutput {
	outputs := make([]LabelOutput, len(inputs))
	if len(inputs) == 0 {
		return outputs
	}

	workers := s.opts.BatchConcurrency
	if workers > len(inputs) {
		workers = len(inputs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				in := inputs[i]
				result, err := s.LabelPost(ctx, in.Ref)
				outputs[i] = LabelOutput{Ref: in.Ref, Result: result, Err: err}
			}
		}()
	}

	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			outputs[i] = LabelOutput{Ref: inputs[i].Ref, Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()

	return outputs
}
