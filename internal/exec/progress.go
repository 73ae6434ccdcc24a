package exec

import (
	"errors"
	"io"
)

// progressReader counts body bytes and calls publish each time another step is crossed.
// Once publish fails, every later Read returns that error.
type progressReader struct {
	r       io.Reader
	step    int64
	total   int64
	current int64
	last    int64
	err     error
	aborted error
	publish func(current, total int64) error
}

func newProgressReader(r io.Reader, step, total int64, publish func(current, total int64) error) *progressReader {
	return &progressReader{
		r:       r,
		step:    step,
		total:   total,
		publish: publish,
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	if p.aborted != nil {
		return 0, p.aborted
	}

	n, err := p.r.Read(b)
	if n > 0 {
		p.current += int64(n)

		if crossed := p.current / p.step; crossed > p.last {
			p.last = crossed

			if publishErr := p.publish(p.current, p.total); publishErr != nil {
				p.aborted = publishErr
				err = publishErr
			}
		}
	}

	if err != nil && !errors.Is(err, io.EOF) && p.err == nil {
		p.err = err
	}

	return n, err
}
