package plaid

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	sdk "github.com/plaid/plaid-go/v29/plaid"
	"github.com/rookgm/storefront/internal/models"
)

// default time of retry after
const delaySeconds = 60

// provider limits transfer description length
const maxDescriptionLen = 15

const (
	genericFailureMessage = "payment could not be processed"
	busyMessage           = "payment provider is busy, try again later"
	declinedMessage       = "transfer was declined by the bank"
)

const (
	decisionApproved  = "approved"
	customerLegalName = "Storefront Customer"
)

// Client represents Plaid Transfer API client
type Client struct {
	api *sdk.APIClient
}

// NewClient creates new Client instance, baseURL selects Plaid environment
func NewClient(baseURL, clientID, secret string) *Client {
	cfg := sdk.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	cfg.UseEnvironment(sdk.Environment(baseURL))
	cfg.HTTPClient = &http.Client{
		Timeout: 10 * time.Second,
	}

	return &Client{api: sdk.NewAPIClient(cfg)}
}

// CreateTransfer authorizes and creates ACH debit transfer
func (c *Client) CreateTransfer(ctx context.Context, req models.TransferRequest) (*models.Transfer, error) {
	amount := req.Amount.StringFixed(2)

	user := sdk.NewTransferAuthorizationUserInRequest(customerLegalName)
	authReq := sdk.NewTransferAuthorizationCreateRequest(req.AccessToken, req.AccountID,
		sdk.TRANSFERTYPE_DEBIT, sdk.TRANSFERNETWORK_ACH, amount, *user)
	authReq.SetAchClass(sdk.ACHCLASS_WEB)

	authResp, httpResp, err := c.api.PlaidApi.TransferAuthorizationCreate(ctx).
		TransferAuthorizationCreateRequest(*authReq).
		Execute()
	if err != nil {
		return nil, providerError("/transfer/authorization/create", httpResp, err)
	}

	authorization := authResp.GetAuthorization()
	if string(authorization.Decision) != decisionApproved {
		reason := string(authorization.Decision)
		if r := authorization.DecisionRationale.Get(); r != nil {
			reason = string(r.Code) + ": " + r.Description
		}
		return nil, &models.ProviderError{
			Message: declinedMessage,
			Err:     fmt.Errorf("authorization %s: %s", authorization.GetId(), reason),
		}
	}

	description := "Order " + req.OrderNumber
	if len(description) > maxDescriptionLen {
		description = description[:maxDescriptionLen]
	}

	trReq := sdk.NewTransferCreateRequest(req.AccessToken, req.AccountID, authorization.GetId(), description)
	trReq.SetAmount(amount)
	trReq.SetMetadata(map[string]string{
		"order_number": req.OrderNumber,
		"user_id":      strconv.FormatUint(req.UserID, 10),
	})

	trResp, httpResp, err := c.api.PlaidApi.TransferCreate(ctx).
		TransferCreateRequest(*trReq).
		Execute()
	if err != nil {
		return nil, providerError("/transfer/create", httpResp, err)
	}

	tr := trResp.GetTransfer()
	transfer := &models.Transfer{
		ID:     tr.GetId(),
		Status: string(tr.GetStatus()),
	}
	if s := tr.GetExpectedSettlementSchedule(); len(s) > 0 {
		transfer.ExpectedSettlement = s[0].GetSettlementDate()
	}

	return transfer, nil
}

// providerError converts SDK failure to ProviderError, only display_message reaches client
// 400 — ошибка запроса, тело содержит описание ошибки.
// 429 — превышено количество запросов к сервису.
// 500 — внутренняя ошибка сервера.
func providerError(path string, resp *http.Response, err error) error {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		t, convErr := strconv.Atoi(resp.Header.Get("Retry-After"))
		if convErr != nil {
			t = delaySeconds
		}
		return &models.ProviderError{
			Message: busyMessage,
			Err:     models.NewTooManyRequestsError(time.Duration(t) * time.Second),
		}
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}

	plaidErr, convErr := sdk.ToPlaidError(err)
	if convErr != nil {
		return &models.ProviderError{
			Message: genericFailureMessage,
			Err:     fmt.Errorf("%s: status %d: %w", path, status, err),
		}
	}

	msg := genericFailureMessage
	if d := plaidErr.GetDisplayMessage(); d != "" {
		msg = d
	}

	return &models.ProviderError{
		Message: msg,
		Err: fmt.Errorf("%s: %s/%s: %s (status %d)",
			path, plaidErr.GetErrorType(), plaidErr.GetErrorCode(), plaidErr.GetErrorMessage(), status),
	}
}
