package workflow

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/RuchiketJadhav/sammati-approval/internal/model"
	"github.com/RuchiketJadhav/sammati-approval/internal/repository"
	"github.com/RuchiketJadhav/sammati-approval/pkg/distributed"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const (
	creatorID   = "u-creator"
	superiorID  = "u-superior"
	adminID     = "u-admin"
	approverA   = "u-approver-a"
	approverB   = "u-approver-b"
	approverC   = "u-approver-c"
	registrarID = "u-registrar"
)

type testEnv struct {
	svc       *Service
	proposals *repository.ProposalRepository
	users     *repository.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Proposal{}, &model.Comment{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	seed := []model.User{
		{ID: creatorID, Username: "creator", FullName: "John Doe", Role: model.RoleUser, Status: 1},
		{ID: superiorID, Username: "superior", FullName: "Jane Smith", Role: model.RoleSuperior, Status: 1},
		{ID: adminID, Username: "admin", FullName: "Alex Johnson", Role: model.RoleAdmin, Status: 1},
		{ID: approverA, Username: "approver-a", FullName: "Approver A", Role: model.RoleApprover, Status: 1},
		{ID: approverB, Username: "approver-b", FullName: "Approver B", Role: model.RoleApprover, Status: 1},
		{ID: approverC, Username: "approver-c", FullName: "Approver C", Role: model.RoleApprover, Status: 1},
		{ID: registrarID, Username: "registrar", FullName: "Sarah Williams", Role: model.RoleRegistrar, Status: 1},
	}
	for i := range seed {
		seed[i].Password = "x"
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("failed to seed user %s: %v", seed[i].ID, err)
		}
	}

	proposals := repository.NewProposalRepository(db)
	users := repository.NewUserRepository(db)
	locker := distributed.NewProposalLocker(nil, 0)
	return &testEnv{
		svc:       NewService(proposals, users, locker),
		proposals: proposals,
		users:     users,
	}
}

func (e *testEnv) create(t *testing.T) *model.Proposal {
	t.Helper()
	p, err := e.svc.Create(context.Background(), creatorID, &model.CreateProposalRequest{
		Title:      "Buy laptops",
		AssignedTo: superiorID,
		Type:       model.TypeEquipment,
		Budget:     "$8,500",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return p
}

// 推进到会签阶段：上级批准 → 管理员批准
func (e *testEnv) toApproverStage(t *testing.T) *model.Proposal {
	t.Helper()
	ctx := context.Background()
	p := e.create(t)
	if _, err := e.svc.Approve(ctx, superiorID, p.ID, "looks fine"); err != nil {
		t.Fatalf("superior approve failed: %v", err)
	}
	p2, err := e.svc.Approve(ctx, adminID, p.ID, "")
	if err != nil {
		t.Fatalf("admin approve failed: %v", err)
	}
	return p2
}

func (e *testEnv) snapshot(t *testing.T, id string) string {
	t.Helper()
	p, err := e.proposals.FindProposalByID(id)
	if err != nil {
		t.Fatalf("failed to reload proposal: %v", err)
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("failed to marshal proposal: %v", err)
	}
	return string(b)
}

func TestCreateStartsAtSuperiorStage(t *testing.T) {
	env := newTestEnv(t)
	p := env.create(t)

	if p.Status != model.StatusPendingSuperior {
		t.Errorf("expected status %s, got %s", model.StatusPendingSuperior, p.Status)
	}
	if p.AssignedTo != superiorID {
		t.Errorf("expected assignee %s, got %s", superiorID, p.AssignedTo)
	}
	if p.CreatedByName != "John Doe" {
		t.Errorf("expected creator name snapshot, got %q", p.CreatedByName)
	}
	if len(p.ApprovalSteps) != 0 {
		t.Errorf("expected empty step history, got %d steps", len(p.ApprovalSteps))
	}
}

func TestFullApprovalRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.toApproverStage(t)

	if p.Status != model.StatusPendingApprovers {
		t.Fatalf("expected status %s after admin approval, got %s", model.StatusPendingApprovers, p.Status)
	}

	p, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverA, approverB})
	if err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}
	if len(p.Approvers) != 2 || len(p.PendingApprovers) != 2 {
		t.Fatalf("expected roster of 2, got approvers=%v pending=%v", p.Approvers, p.PendingApprovers)
	}

	p, err = env.svc.ApproveAsApprover(ctx, approverA, p.ID, "fine by me")
	if err != nil {
		t.Fatalf("approver A approve failed: %v", err)
	}
	if p.Status != model.StatusPendingApprovers {
		t.Errorf("proposal advanced before all approvers responded: %s", p.Status)
	}
	if len(p.PendingApprovers) != 1 || p.PendingApprovers[0] != approverB {
		t.Errorf("expected pending=[%s], got %v", approverB, p.PendingApprovers)
	}

	// 单个审批人拒绝不否决提案，等齐全部响应后交给登记员
	p, err = env.svc.RejectAsApprover(ctx, approverB, p.ID, "needs work")
	if err != nil {
		t.Fatalf("approver B reject failed: %v", err)
	}
	if p.Status != model.StatusPendingRegistrar {
		t.Errorf("expected status %s after all responses, got %s", model.StatusPendingRegistrar, p.Status)
	}
	if len(p.PendingApprovers) != 0 {
		t.Errorf("expected empty pending list, got %v", p.PendingApprovers)
	}

	p, err = env.svc.ApproveAsRegistrar(ctx, registrarID, p.ID, "")
	if err != nil {
		t.Fatalf("registrar approve failed: %v", err)
	}
	if p.Status != model.StatusApproved {
		t.Errorf("expected status %s, got %s", model.StatusApproved, p.Status)
	}

	progress, err := env.svc.GetProgress(ctx, p.ID)
	if err != nil {
		t.Fatalf("get progress failed: %v", err)
	}
	if progress.Percent != 100 {
		t.Errorf("expected 100%% progress, got %d%% (%d/%d)", progress.Percent, progress.CompletedSteps, progress.TotalSteps)
	}
}

func TestRejectAndResubmit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.create(t)

	p, err := env.svc.Reject(ctx, superiorID, p.ID, "insufficient detail")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if p.Status != model.StatusRejected {
		t.Errorf("expected status %s, got %s", model.StatusRejected, p.Status)
	}
	if p.RejectedByRegistrar {
		t.Error("ordinary rejection must not set the registrar flag")
	}
	if p.RejectionReason != "insufficient detail" {
		t.Errorf("unexpected rejection reason %q", p.RejectionReason)
	}

	// 流程评论带固定前缀
	found := false
	for _, c := range p.Comments {
		if c.Text == model.CommentPrefixRejected+"insufficient detail" {
			found = true
		}
	}
	if !found {
		t.Error("expected a workflow comment with the rejection prefix")
	}

	p, err = env.svc.Resubmit(ctx, creatorID, p.ID)
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if p.Status != model.StatusPendingSuperior {
		t.Errorf("expected status %s after resubmit, got %s", model.StatusPendingSuperior, p.Status)
	}
	if p.RejectionReason != "" || p.RejectedBy != "" {
		t.Error("rejection fields must be cleared on resubmit")
	}
	if !p.Resubmitted || p.ResubmittedAt == nil {
		t.Error("resubmission must be recorded")
	}
}

func TestResubmitOnlyByCreator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.create(t)

	if _, err := env.svc.Reject(ctx, superiorID, p.ID, "no"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	_, err := env.svc.Resubmit(ctx, superiorID, p.ID)
	if !IsAuthorization(err) {
		t.Errorf("expected authorization error, got %v", err)
	}
}

func TestRegistrarRejectionIsPermanent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.toApproverStage(t)

	if _, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverA}); err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}
	if _, err := env.svc.ApproveAsApprover(ctx, approverA, p.ID, ""); err != nil {
		t.Fatalf("approver approve failed: %v", err)
	}

	p, err := env.svc.RejectAsRegistrar(ctx, registrarID, p.ID, "policy violation")
	if err != nil {
		t.Fatalf("registrar reject failed: %v", err)
	}
	if !p.RejectedByRegistrar {
		t.Fatal("registrar rejection must set the permanent flag")
	}

	_, err = env.svc.Resubmit(ctx, creatorID, p.ID)
	if !IsState(err) {
		t.Errorf("expected state error on resubmit after registrar rejection, got %v", err)
	}

	// 其他变更之后依然不可重新提交
	if _, err := env.svc.Update(ctx, creatorID, p.ID, &model.UpdateProposalRequest{Description: "tweaked"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	_, err = env.svc.Resubmit(ctx, creatorID, p.ID)
	if !IsState(err) {
		t.Errorf("expected resubmit to stay blocked, got %v", err)
	}
}

func TestApproverCannotRespondTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.toApproverStage(t)

	if _, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverA, approverB}); err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}
	if _, err := env.svc.ApproveAsApprover(ctx, approverA, p.ID, ""); err != nil {
		t.Fatalf("first response failed: %v", err)
	}

	before := env.snapshot(t, p.ID)
	_, err := env.svc.ApproveAsApprover(ctx, approverA, p.ID, "")
	if !IsState(err) {
		t.Fatalf("expected state error on second response, got %v", err)
	}
	if after := env.snapshot(t, p.ID); after != before {
		t.Error("failed transition must not persist any change")
	}
}

func TestApproverOutsideRosterIsDenied(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.toApproverStage(t)

	if _, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverA}); err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}
	_, err := env.svc.ApproveAsApprover(ctx, approverB, p.ID, "")
	if !IsAuthorization(err) {
		t.Errorf("expected authorization error for non-roster approver, got %v", err)
	}
}

func TestPendingApproversShrinkUntilReassignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.toApproverStage(t)

	if _, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverA, approverB, approverC}); err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}

	p, err := env.svc.ApproveAsApprover(ctx, approverB, p.ID, "")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if len(p.PendingApprovers) != 2 {
		t.Fatalf("expected 2 pending, got %v", p.PendingApprovers)
	}

	// 重新指定名单：pending 回到新名单全集，旧轮次的步骤被清掉
	p, err = env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverB, approverC})
	if err != nil {
		t.Fatalf("reassign failed: %v", err)
	}
	if len(p.PendingApprovers) != 2 {
		t.Fatalf("expected pending reset to new roster, got %v", p.PendingApprovers)
	}
	for _, step := range p.ApprovalSteps {
		if step.UserID == approverB && step.Status != model.StepPending {
			t.Errorf("stale step for reassigned approver must be replaced, got %s", step.Status)
		}
	}
}

func TestAssignToRegistrarWithPendingApprover(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.toApproverStage(t)

	if _, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverA, approverB}); err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}
	if _, err := env.svc.ApproveAsApprover(ctx, approverA, p.ID, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	before := env.snapshot(t, p.ID)
	_, err := env.svc.AssignToRegistrar(ctx, adminID, p.ID)
	if !IsState(err) {
		t.Fatalf("expected state error while an approver is pending, got %v", err)
	}
	if after := env.snapshot(t, p.ID); after != before {
		t.Error("pending approvers must be unchanged after the failed transition")
	}
}

func TestRegistrarRevisionForcesReassignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.toApproverStage(t)

	if _, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverA}); err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}
	if _, err := env.svc.ApproveAsApprover(ctx, approverA, p.ID, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	p, err := env.svc.RequestRevisionAsRegistrar(ctx, registrarID, p.ID, "redo budget")
	if err != nil {
		t.Fatalf("registrar revision failed: %v", err)
	}
	if p.Status != model.StatusNeedsRevision || !p.NeedsReassignment {
		t.Fatalf("expected NEEDS_REVISION with reassignment required, got status=%s needsReassignment=%v",
			p.Status, p.NeedsReassignment)
	}

	found := false
	for _, c := range p.Comments {
		if c.Text == model.CommentPrefixRegistrarRevision+"redo budget" {
			found = true
		}
	}
	if !found {
		t.Error("expected a workflow comment with the registrar revision prefix")
	}

	// 空名单在强制重新指定时被拒绝
	_, err = env.svc.AssignApprovers(ctx, adminID, p.ID, nil)
	if !IsValidation(err) {
		t.Fatalf("expected validation error for empty roster, got %v", err)
	}

	p, err = env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverC})
	if err != nil {
		t.Fatalf("reassign with non-empty roster failed: %v", err)
	}
	if p.NeedsReassignment {
		t.Error("reassignment flag must be cleared after a roster is supplied")
	}
	if p.Status != model.StatusPendingApprovers {
		t.Errorf("expected status %s after reassignment, got %s", model.StatusPendingApprovers, p.Status)
	}
}

// 会签名单只接受审批人角色，且指定名单不得动上级/管理员留下的历史步骤
func TestAssignApproversRequiresApproverRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.toApproverStage(t)

	before := env.snapshot(t, p.ID)

	// 名单里混入上级：整体拒绝，提案保持原状
	_, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{superiorID, approverA})
	if !IsValidation(err) {
		t.Fatalf("expected validation error for non-approver roster member, got %v", err)
	}
	if after := env.snapshot(t, p.ID); after != before {
		t.Error("proposal changed after a failed roster assignment")
	}

	// 正常指定后上级和管理员的批准步骤必须原样保留
	p2, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverA, approverB})
	if err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}
	kept := 0
	for _, step := range p2.ApprovalSteps {
		if step.Status == model.StepApproved &&
			(step.UserRole == model.RoleSuperior || step.UserRole == model.RoleAdmin) {
			kept++
		}
	}
	if kept != 2 {
		t.Errorf("expected superior and admin approval steps to survive, found %d", kept)
	}
}

// 审批历史是会签完成的唯一判定依据，pending_approvers 只是缓存。
// 两者不一致时以历史为准
func TestFanInUsesStepHistoryNotCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 缓存为空但历史里还有 pending 步骤：不得推进
	stale := &model.Proposal{
		ID:                "p-stale-cache",
		Title:             "Stale cache",
		Type:              model.TypeOther,
		CreatedBy:         creatorID,
		CreatedByName:     "John Doe",
		Status:            model.StatusPendingApprovers,
		Approvers:         model.StringArray{approverA, approverB},
		PendingApprovers:  model.StringArray{},
		ApproversAssigned: true,
		ApprovalSteps: model.ApprovalStepList{
			{UserID: approverA, UserRole: model.RoleApprover, Status: model.StepApproved, Timestamp: 1},
			{UserID: approverB, UserRole: model.RoleApprover, Status: model.StepPending},
		},
	}
	if err := env.proposals.CreateProposal(stale); err != nil {
		t.Fatalf("failed to seed proposal: %v", err)
	}
	if _, err := env.svc.AssignToRegistrar(ctx, adminID, stale.ID); !IsState(err) {
		t.Errorf("expected state error while a step is pending, got %v", err)
	}

	// 缓存还有残留但历史里所有人都已响应：可以推进
	responded := &model.Proposal{
		ID:                "p-stale-pending",
		Title:             "Stale pending list",
		Type:              model.TypeOther,
		CreatedBy:         creatorID,
		CreatedByName:     "John Doe",
		Status:            model.StatusPendingApprovers,
		Approvers:         model.StringArray{approverA, approverB},
		PendingApprovers:  model.StringArray{approverB},
		ApproversAssigned: true,
		ApprovalSteps: model.ApprovalStepList{
			{UserID: approverA, UserRole: model.RoleApprover, Status: model.StepApproved, Timestamp: 1},
			{UserID: approverB, UserRole: model.RoleApprover, Status: model.StepRejected, Timestamp: 2},
		},
	}
	if err := env.proposals.CreateProposal(responded); err != nil {
		t.Fatalf("failed to seed proposal: %v", err)
	}
	p, err := env.svc.AssignToRegistrar(ctx, adminID, responded.ID)
	if err != nil {
		t.Fatalf("expected transition to succeed with fully responded history, got %v", err)
	}
	if p.Status != model.StatusPendingRegistrar || !p.AssignedToRegistrar {
		t.Errorf("expected handoff to registrar, got status=%s flag=%v", p.Status, p.AssignedToRegistrar)
	}
}

func TestStageRoleChecks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(p *model.Proposal) error
		kind ErrorKind
	}{
		{
			name: "creator cannot approve",
			run: func(p *model.Proposal) error {
				_, err := env.svc.Approve(ctx, creatorID, p.ID, "")
				return err
			},
			kind: KindAuthorization,
		},
		{
			name: "admin cannot approve at superior stage",
			run: func(p *model.Proposal) error {
				_, err := env.svc.Approve(ctx, adminID, p.ID, "")
				return err
			},
			kind: KindAuthorization,
		},
		{
			name: "registrar cannot reject before final stage",
			run: func(p *model.Proposal) error {
				_, err := env.svc.RejectAsRegistrar(ctx, registrarID, p.ID, "reason")
				return err
			},
			kind: KindState,
		},
		{
			name: "reject without reason",
			run: func(p *model.Proposal) error {
				_, err := env.svc.Reject(ctx, superiorID, p.ID, "  ")
				return err
			},
			kind: KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := env.create(t)
			err := tt.run(p)
			if KindOf(err) != tt.kind {
				t.Errorf("expected %s error, got %v", tt.kind, err)
			}
		})
	}
}

func TestSuperiorMustBeAssignee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 再造一个上级，提案分派给第一个
	other := model.User{ID: "u-superior-2", Username: "superior2", FullName: "Other Superior",
		Password: "x", Role: model.RoleSuperior, Status: 1}
	if err := env.users.CreateUser(&other); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	p := env.create(t)
	_, err := env.svc.Approve(ctx, other.ID, p.ID, "")
	if !IsAuthorization(err) {
		t.Errorf("expected authorization error for non-assignee superior, got %v", err)
	}
}

func TestProposalNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Approve(context.Background(), superiorID, "no-such-id", "")
	if !IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestApproverRejectionRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.toApproverStage(t)

	if _, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverA}); err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}
	_, err := env.svc.RejectAsApprover(ctx, approverA, p.ID, "")
	if !IsValidation(err) {
		t.Errorf("expected validation error for empty reason, got %v", err)
	}
}

func TestUpdateRespectsStage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.toApproverStage(t)

	// 创建人不能在后段编辑
	_, err := env.svc.Update(ctx, creatorID, p.ID, &model.UpdateProposalRequest{Title: "new title"})
	if !IsState(err) {
		t.Errorf("expected state error for creator edit at approver stage, got %v", err)
	}

	// 管理员随时可以编辑
	p2, err := env.svc.Update(ctx, adminID, p.ID, &model.UpdateProposalRequest{Title: "new title"})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if p2.Title != "new title" {
		t.Errorf("expected updated title, got %q", p2.Title)
	}
}

func TestDeleteRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.create(t)
	if err := env.svc.Delete(ctx, superiorID, p.ID); !IsAuthorization(err) {
		t.Errorf("expected authorization error for non-creator delete, got %v", err)
	}
	if err := env.svc.Delete(ctx, creatorID, p.ID); err != nil {
		t.Fatalf("creator delete failed: %v", err)
	}
	if _, err := env.svc.GetProposal(ctx, p.ID); !IsNotFound(err) {
		t.Errorf("expected proposal to be gone, got %v", err)
	}
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.create(t)

	c, err := env.svc.AddComment(ctx, superiorID, p.ID, "please add a budget breakdown")
	if err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if c.UserName != "Jane Smith" {
		t.Errorf("expected author name snapshot, got %q", c.UserName)
	}
	if c.Timestamp == 0 {
		t.Error("expected millisecond timestamp on comment")
	}

	comments, err := env.proposals.FindComments(p.ID)
	if err != nil {
		t.Fatalf("find comments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("expected 1 comment, got %d", len(comments))
	}
}

func TestListProposalFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mine := env.create(t)
	other := env.toApproverStage(t)
	if _, err := env.svc.AssignApprovers(ctx, adminID, other.ID, []string{approverA}); err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}

	got, err := env.svc.ListProposals(ctx, creatorID, "mine")
	if err != nil {
		t.Fatalf("list mine failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 own proposals, got %d", len(got))
	}

	got, err = env.svc.ListProposals(ctx, superiorID, "assigned")
	if err != nil {
		t.Fatalf("list assigned failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Errorf("expected only the superior-stage proposal, got %d", len(got))
	}

	got, err = env.svc.ListProposals(ctx, approverA, "assigned")
	if err != nil {
		t.Fatalf("list assigned for approver failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != other.ID {
		t.Errorf("expected the fan-out proposal for approver A, got %d", len(got))
	}

	if _, err := env.svc.ListProposals(ctx, creatorID, "all"); !IsAuthorization(err) {
		t.Errorf("expected authorization error for 'all' filter as plain user, got %v", err)
	}
	got, err = env.svc.ListProposals(ctx, registrarID, "all")
	if err != nil {
		t.Fatalf("list all as registrar failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected all proposals for registrar, got %d", len(got))
	}
}

func TestProgressProjection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.create(t)
	progress, err := env.svc.GetProgress(ctx, p.ID)
	if err != nil {
		t.Fatalf("get progress failed: %v", err)
	}
	if progress.Percent != 0 {
		t.Errorf("expected 0%% with no steps, got %d%%", progress.Percent)
	}

	if _, err := env.svc.Approve(ctx, superiorID, p.ID, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := env.svc.Approve(ctx, adminID, p.ID, ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := env.svc.AssignApprovers(ctx, adminID, p.ID, []string{approverA, approverB}); err != nil {
		t.Fatalf("assign approvers failed: %v", err)
	}

	// 4 步里完成 2 步（两条 pending 不算完成）
	progress, err = env.svc.GetProgress(ctx, p.ID)
	if err != nil {
		t.Fatalf("get progress failed: %v", err)
	}
	if progress.Percent != 50 {
		t.Errorf("expected 50%%, got %d%% (%d/%d)", progress.Percent, progress.CompletedSteps, progress.TotalSteps)
	}

	pending, err := env.svc.GetPendingApprovers(ctx, p.ID)
	if err != nil {
		t.Fatalf("get pending approvers failed: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("expected 2 pending approvers, got %v", pending)
	}
}
