package leave

import "context"

type Service interface {
	// Submit files a request for the authenticated employee.
	Submit(ctx context.Context, req CreateRequestRequest) (RequestResponse, error)

	// Approve marks the request approved and stamps status "leave"
	// onto each covered attendance ledger day, atomically.
	Approve(ctx context.Context, requestID string) (RequestResponse, error)

	Reject(ctx context.Context, req RejectRequestRequest) (RequestResponse, error)

	// Cancel withdraws an unprocessed request; only its owner may.
	Cancel(ctx context.Context, requestID string) (RequestResponse, error)

	ListMy(ctx context.Context) (ListRequestsResponse, error)
	List(ctx context.Context, filter ListFilter) (ListRequestsResponse, error)
}
