package indexer

import "fmt"

// Partition is the half-open range [Start, End) of the document list that
// one worker indexes.
type Partition struct {
	Worker int
	Start  int
	End    int
}

func (p Partition) Len() int {
	return p.End - p.Start
}

func (p Partition) String() string {
	return fmt.Sprintf("worker %d [%d, %d)", p.Worker, p.Start, p.End)
}

// Partitions splits n documents into workers contiguous slices. Slice i
// covers [i*n/workers, (i+1)*n/workers). With fewer documents than workers
// some slices are empty.
func Partitions(n, workers int) ([]Partition, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}
	if n < 0 {
		return nil, fmt.Errorf("negative document count: %d", n)
	}

	partitions := make([]Partition, 0, workers)
	for i := range workers {
		partitions = append(partitions, Partition{
			Worker: i,
			Start:  i * n / workers,
			End:    (i + 1) * n / workers,
		})
	}
	return partitions, nil
}
