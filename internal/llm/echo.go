package llm

import "context"

// Echo returns the user message unchanged. It never fails unless ctx is done.
type Echo struct{}

func (Echo) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return req.User, nil
}
