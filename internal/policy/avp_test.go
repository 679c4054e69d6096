package policy

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"quill/internal/domain"
	"quill/internal/domain/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/verifiedpermissions"
	"github.com/aws/aws-sdk-go-v2/service/verifiedpermissions/types"
)

type fakePolicyClient struct {
	listOut   *verifiedpermissions.ListPoliciesOutput
	listErr   error
	createOut *verifiedpermissions.CreatePolicyOutput
	createErr error
	authOut   *verifiedpermissions.IsAuthorizedWithTokenOutput
	authErr   error

	gotList   *verifiedpermissions.ListPoliciesInput
	gotCreate *verifiedpermissions.CreatePolicyInput
}

func (f *fakePolicyClient) ListPolicies(ctx context.Context, params *verifiedpermissions.ListPoliciesInput, optFns ...func(*verifiedpermissions.Options)) (*verifiedpermissions.ListPoliciesOutput, error) {
	f.gotList = params
	return f.listOut, f.listErr
}

func (f *fakePolicyClient) CreatePolicy(ctx context.Context, params *verifiedpermissions.CreatePolicyInput, optFns ...func(*verifiedpermissions.Options)) (*verifiedpermissions.CreatePolicyOutput, error) {
	f.gotCreate = params
	return f.createOut, f.createErr
}

func (f *fakePolicyClient) IsAuthorizedWithToken(ctx context.Context, params *verifiedpermissions.IsAuthorizedWithTokenInput, optFns ...func(*verifiedpermissions.Options)) (*verifiedpermissions.IsAuthorizedWithTokenOutput, error) {
	return f.authOut, f.authErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func policyItem(id, principalID, notebookID string) types.PolicyItem {
	return types.PolicyItem{
		PolicyId: aws.String(id),
		Principal: &types.EntityIdentifier{
			EntityType: aws.String(EntityTypeUser),
			EntityId:   aws.String(principalID),
		},
		Resource: &types.EntityIdentifier{
			EntityType: aws.String(EntityTypeNotebook),
			EntityId:   aws.String(notebookID),
		},
	}
}

func TestFindGrantsMapsPolicies(t *testing.T) {
	client := &fakePolicyClient{
		listOut: &verifiedpermissions.ListPoliciesOutput{
			Policies: []types.PolicyItem{
				policyItem("p1", "pool|sub-a", "r1"),
				// Entity id not in compound form: written outside the share
				// flow, must be skipped on the read path
				policyItem("p2", "bare-sub", "r1"),
			},
		},
	}
	store := NewAVPStore(client, "store-1", testLogger())

	principal := models.NewPrincipalID("pool", "sub-a")
	grants, err := store.FindGrants(context.Background(), models.GrantFilter{
		Principal:  &principal,
		NotebookID: "r1",
	})
	if err != nil {
		t.Fatalf("find grants failed: %v", err)
	}

	if len(grants) != 1 {
		t.Fatalf("expected one grant, got %+v", grants)
	}
	if grants[0].Principal != principal || grants[0].NotebookID != "r1" {
		t.Errorf("grant mapping wrong: %+v", grants[0])
	}

	// Both filter sides must be forwarded to the store
	if client.gotList.Filter == nil || client.gotList.Filter.Principal == nil || client.gotList.Filter.Resource == nil {
		t.Error("exact-pair filter not forwarded")
	}
}

func TestFindGrantsRequiresFilter(t *testing.T) {
	store := NewAVPStore(&fakePolicyClient{}, "store-1", testLogger())

	_, err := store.FindGrants(context.Background(), models.GrantFilter{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for empty filter, got %v", err)
	}
}

func TestFindGrantsDependencyError(t *testing.T) {
	client := &fakePolicyClient{listErr: errors.New("throttled")}
	store := NewAVPStore(client, "store-1", testLogger())

	_, err := store.FindGrants(context.Background(), models.GrantFilter{NotebookID: "r1"})
	if !errors.Is(err, domain.ErrDependency) {
		t.Errorf("expected dependency error, got %v", err)
	}
}

func TestCreateGrantWritesCompoundPrincipal(t *testing.T) {
	client := &fakePolicyClient{
		createOut: &verifiedpermissions.CreatePolicyOutput{PolicyId: aws.String("p9")},
	}
	store := NewAVPStore(client, "store-1", testLogger())

	principal := models.NewPrincipalID("pool", "sub-a")
	grant, err := store.CreateGrant(context.Background(), principal, "r1", ActionReadNotebook)
	if err != nil {
		t.Fatalf("create grant failed: %v", err)
	}

	if grant.ID != "p9" || grant.Principal != principal || grant.Action != ActionReadNotebook {
		t.Errorf("grant mapping wrong: %+v", grant)
	}

	static, ok := client.gotCreate.Definition.(*types.PolicyDefinitionMemberStatic)
	if !ok {
		t.Fatalf("expected static policy definition, got %T", client.gotCreate.Definition)
	}
	want := permitStatement(principal, ActionReadNotebook, "r1")
	if aws.ToString(static.Value.Statement) != want {
		t.Errorf("statement = %s, want %s", aws.ToString(static.Value.Statement), want)
	}
}

func TestIsAuthorizedDecision(t *testing.T) {
	tests := []struct {
		name     string
		decision types.Decision
		want     bool
	}{
		{name: "allow", decision: types.DecisionAllow, want: true},
		{name: "deny", decision: types.DecisionDeny, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakePolicyClient{
				authOut: &verifiedpermissions.IsAuthorizedWithTokenOutput{Decision: tt.decision},
			}
			store := NewAVPStore(client, "store-1", testLogger())

			got, err := store.IsAuthorized(context.Background(), "token", ActionReadNotebook, "r1")
			if err != nil {
				t.Fatalf("is authorized failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("decision = %v, want %v", got, tt.want)
			}
		})
	}
}
