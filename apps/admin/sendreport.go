package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// waiter is implemented by the email services sending in the background.
type waiter interface {
	Wait()
}

func (cli *commandLine) sendReport(ctx context.Context, researcherID string) error {
	r, err := cli.researcherSvc.GetByID(ctx, researcherID)
	if err != nil {
		return errors.Wrap(err, "finding researcher")
	}
	msg, err := cli.rankingSvc.ReportMessage(ctx, r)
	if err != nil {
		return errors.Wrap(err, "building points report")
	}

	cli.mailSvc.SendMessages(msg)
	if w, ok := cli.mailSvc.(waiter); ok {
		w.Wait()
	}
	fmt.Fprintf(cli.out, "points report of %s sent to %s\n", r.DisplayName(), r.Email)
	return nil
}
