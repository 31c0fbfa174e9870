package merchant

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/paygs/paygs/internal/bank"
)

type cardTypeSeed struct {
	name    string
	pattern string
}

var defaultCardTypes = []cardTypeSeed{
	{"VISA", `^4[0-9]{12}(?:[0-9]{3}){0,2}$`},
	{"MASTERCARD", `^(5[1-5][0-9]{14}|2(22[1-9][0-9]{12}|2[3-9][0-9]{13}|[3-6][0-9]{14}|7[01][0-9]{13}|720[0-9]{12}))$`},
	{"DINERS_CLUB", `^3(?:0[0-5]|[68][0-9])[0-9]{11}$`},
}

var defaultBanks = []bank.Bank{
	{Name: "DUMMY_BNK", BIN: 402400, AuthorizationURL: "http://localhost:3001/authorize", AReqURL: "http://localhost:3001/authenticate"},
	{Name: "DUMMY_BNK_2", BIN: 527116, AuthorizationURL: "http://localhost:3002/authorize", AReqURL: "http://localhost:3002/authenticate"},
}

// Seed loads the default card types and demo banks when they are not present
// yet. Safe to call on every startup.
func Seed(ctx context.Context, repo Repository, banks bank.Repository, logger *slog.Logger) error {
	for _, seed := range defaultCardTypes {
		_, err := repo.CardTypeByName(ctx, seed.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		ct := CardType{UUID: uuid.NewString(), Name: seed.name, Pattern: seed.pattern}
		if err := repo.CreateCardType(ctx, ct); err != nil {
			return err
		}
		logger.Info("seeded card type", slog.String("name", ct.Name), slog.String("uuid", ct.UUID))
	}

	for _, b := range defaultBanks {
		if _, err := banks.ByBIN(ctx, b.BIN); err == nil {
			continue
		} else if !errors.Is(err, bank.ErrNotFound) {
			return err
		}
		b.UUID = uuid.NewString()
		if err := banks.Create(ctx, b); err != nil {
			return err
		}
		logger.Info("seeded bank", slog.String("name", b.Name), slog.Int("bin", b.BIN), slog.String("uuid", b.UUID))
	}

	return nil
}
