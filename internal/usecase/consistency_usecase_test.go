package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/orbitcrm/ledger/internal/usecase"
	"github.com/orbitcrm/ledger/internal/usecase/mocks"
)

func TestConsistencyUseCase_Check_Consistent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().UnbalancedTransactions(gomock.Any(), gomock.Any()).Return(nil, nil)
	ledgerRepo.EXPECT().BrokenChainAccounts(gomock.Any(), gomock.Any()).Return(nil, nil)
	ledgerRepo.EXPECT().DriftedAccounts(gomock.Any(), gomock.Any()).Return(nil, nil)

	uc := usecase.NewConsistencyUseCase(ledgerRepo)

	report, err := uc.Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Consistent {
		t.Error("expected a consistent report")
	}
}

func TestConsistencyUseCase_Check_ReportsViolations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().UnbalancedTransactions(gomock.Any(), gomock.Any()).Return([]string{"txn-7"}, nil)
	ledgerRepo.EXPECT().BrokenChainAccounts(gomock.Any(), gomock.Any()).Return(nil, nil)
	ledgerRepo.EXPECT().DriftedAccounts(gomock.Any(), gomock.Any()).Return([]string{"acc-3"}, nil)

	uc := usecase.NewConsistencyUseCase(ledgerRepo)

	report, err := uc.Check(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Consistent {
		t.Error("expected an inconsistent report")
	}
	if len(report.UnbalancedTransactions) != 1 || report.UnbalancedTransactions[0] != "txn-7" {
		t.Errorf("expected txn-7 flagged, got %v", report.UnbalancedTransactions)
	}
	if len(report.DriftedAccounts) != 1 || report.DriftedAccounts[0] != "acc-3" {
		t.Errorf("expected acc-3 flagged, got %v", report.DriftedAccounts)
	}
}

func TestConsistencyUseCase_Check_PropagatesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoErr := errors.New("query timeout")

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().UnbalancedTransactions(gomock.Any(), gomock.Any()).Return(nil, repoErr)

	uc := usecase.NewConsistencyUseCase(ledgerRepo)

	_, err := uc.Check(context.Background())
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}
