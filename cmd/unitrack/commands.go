package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/config"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/services"
	"github.com/unitrack/portal/internal/store"
	"github.com/unitrack/portal/pkg/logger"
	"github.com/unitrack/portal/pkg/response"
	"golang.org/x/term"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

// readPasswordFunc reads a password without echo. Tests replace it.
var readPasswordFunc = readPassword

func readPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		return term.ReadPassword(fd)
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

var commands = []command{
	{name: "login", summary: "sign in with -email (password is prompted)", run: cmdLogin},
	{name: "guest", summary: "browse read-only as -role student|supervisor|admin", run: cmdGuest},
	{name: "logout", summary: "sign out and forget the stored session", run: cmdLogout},
	{name: "whoami", summary: "show the current session", run: cmdWhoami},
	{name: "signup", summary: "register a -role student|supervisor account", run: cmdSignup},
	{name: "create-project", summary: "create your project with -title and -description", run: cmdCreateProject},
	{name: "project", summary: "show your project, or -id for a supervisor review", run: cmdProject},
	{name: "projects", summary: "list projects", run: cmdProjects},
	{name: "submit", summary: "upload -file for the current milestone", run: cmdSubmit},
	{name: "resubmit", summary: "upload -file again for a rejected -milestone", run: cmdResubmit},
	{name: "submissions", summary: "list your submissions", run: cmdSubmissions},
	{name: "approve", summary: "approve the proposal of -project", run: cmdApprove},
	{name: "reject", summary: "reject the proposal of -project with -comment", run: cmdReject},
	{name: "pending", summary: "list supervisors awaiting approval", run: cmdPending},
	{name: "approve-supervisor", summary: "approve supervisor -id", run: cmdApproveSupervisor},
	{name: "supervisors", summary: "list approved supervisors", run: cmdSupervisors},
	{name: "students", summary: "list students", run: cmdStudents},
	{name: "assigned", summary: "list students with a supervisor", run: cmdAssigned},
	{name: "assign", summary: "assign -students 1,2,3 to -supervisor", run: cmdAssign},
	{name: "my-students", summary: "list the students you supervise", run: cmdMyStudents},
	{name: "student", summary: "show the profile of student -id", run: cmdStudent},
	{name: "reject-student", summary: "remove student -id from your list", run: cmdRejectStudent},
	{name: "session", summary: "show the academic session", run: cmdSession},
	{name: "create-session", summary: "set up the academic session", run: cmdCreateSession},
	{name: "config", summary: "write the effective configuration to -out", run: cmdConfig},
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

type cli struct {
	portal *services.Portal
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer
	asJSON bool
}

func newCLI(p *services.Portal, cfg *config.Config, out, errOut io.Writer) *cli {
	return &cli{portal: p, cfg: cfg, out: out, errOut: errOut}
}

func (c *cli) run(ctx context.Context, args []string) int {
	root := flag.NewFlagSet("unitrack", flag.ContinueOnError)
	root.SetOutput(c.errOut)
	root.BoolVar(&c.asJSON, "json", false, "print results as JSON")
	root.Usage = c.usage
	if err := root.Parse(args); err != nil {
		return exitUsage
	}
	if root.NArg() == 0 {
		c.usage()
		return exitUsage
	}

	cmd, ok := lookup(root.Arg(0))
	if !ok {
		fmt.Fprintf(c.errOut, "unknown command %q\n\n", root.Arg(0))
		c.usage()
		return exitUsage
	}
	if err := cmd.run(ctx, c, root.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		c.report(err)
		return exitError
	}
	return exitOK
}

func (c *cli) usage() {
	fmt.Fprintln(c.errOut, "Usage: unitrack [-json] <command> [flags]")
	fmt.Fprintln(c.errOut)
	w := tabwriter.NewWriter(c.errOut, 0, 0, 2, ' ', 0)
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %s\t%s\n", cmd.name, cmd.summary)
	}
	w.Flush()
}

// report prints err the way the portal would show it inline.
func (c *cli) report(err error) {
	var verr *services.ValidationError
	var denied *gate.DeniedError

	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(c.errOut, "Please fix the following:")
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(c.errOut, "  %s: %s\n", f, verr.Fields[f])
		}
	case errors.As(err, &denied):
		fmt.Fprintln(c.errOut, "Guest mode is read-only. Sign in to make changes.")
	case errors.Is(err, apiclient.ErrSessionExpired):
		fmt.Fprintln(c.errOut, "Error: Your session has expired. Please log in again.")
	default:
		fmt.Fprintf(c.errOut, "Error: %s\n", response.MessageOr(err, "Request failed"))
	}
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("unitrack "+name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected argument %q\n", fs.Arg(0))
		return errUsage
	}
	return nil
}

func missing(fs *flag.FlagSet, name string) error {
	fmt.Fprintf(fs.Output(), "%s: -%s is required\n", fs.Name(), name)
	return errUsage
}

// emit writes v as JSON when -json is set and calls text otherwise.
func (c *cli) emit(v interface{}, text func(w io.Writer)) error {
	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	text(w)
	return w.Flush()
}

func (c *cli) promptPassword() (string, error) {
	fmt.Fprint(c.errOut, "Password: ")
	b, err := readPasswordFunc()
	fmt.Fprintln(c.errOut)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid student id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func openUpload(path string) (apiclient.Upload, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return apiclient.Upload{}, nil, err
	}
	return apiclient.Upload{FileName: filepath.Base(path), Content: f}, func() { f.Close() }, nil
}

// restoreProgress rebuilds the tracker, which lives only as long as the
// process does.
func (c *cli) restoreProgress(ctx context.Context) error {
	_, err := c.portal.Projects.Current(ctx)
	return err
}

func submissionStatus(s models.Submission) string {
	switch {
	case s.IsApproved:
		return "approved"
	case s.IsRejected:
		return "rejected"
	case s.IsRead:
		return "read"
	default:
		return "pending"
	}
}

func supervisorName(ref *models.SupervisorRef) string {
	if ref == nil {
		return "-"
	}
	return ref.FullName
}

// --- auth ---

func cmdLogin(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("login")
	email := fs.String("email", "", "account email")
	if err := parse(fs, args); err != nil {
		return err
	}
	password, err := c.promptPassword()
	if err != nil {
		return err
	}

	res, err := c.portal.Auth.Login(ctx, &services.LoginRequest{Email: *email, Password: password})
	if err != nil {
		return err
	}
	return c.emit(res, func(w io.Writer) {
		fmt.Fprintf(w, "Signed in as %s (%s).\n", res.User.FullName, res.User.Role)
		fmt.Fprintf(w, "Dashboard: %s\n", res.Redirect)
	})
}

func cmdGuest(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("guest")
	role := fs.String("role", "", "student, supervisor or admin")
	if err := parse(fs, args); err != nil {
		return err
	}

	res, err := c.portal.Auth.GuestLogin(ctx, &services.GuestLoginRequest{Role: models.Role(*role)})
	if err != nil {
		return err
	}
	return c.emit(res, func(w io.Writer) {
		fmt.Fprintf(w, "Browsing as a guest %s. Changes are disabled.\n", *role)
		fmt.Fprintf(w, "Dashboard: %s\n", res.Redirect)
	})
}

func cmdLogout(ctx context.Context, c *cli, args []string) error {
	if err := parse(c.flags("logout"), args); err != nil {
		return err
	}
	if err := c.portal.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Signed out.")
	return nil
}

func cmdWhoami(ctx context.Context, c *cli, args []string) error {
	if err := parse(c.flags("whoami"), args); err != nil {
		return err
	}
	session := c.portal.Users.Snapshot()
	if session.Role() == models.RoleStudent {
		if err := c.restoreProgress(ctx); err != nil {
			logger.Warn().Err(err).Msg("could not restore submission progress")
		}
	}

	st := c.portal.State()
	return c.emit(st, func(w io.Writer) {
		if st.Session.User == nil {
			fmt.Fprintln(w, "Not signed in.")
			return
		}
		u := st.Session.User
		fmt.Fprintf(w, "Name:\t%s\n", u.FullName)
		fmt.Fprintf(w, "Email:\t%s\n", u.Email)
		fmt.Fprintf(w, "Role:\t%s\n", st.Session.Role())
		if st.Gate.IsReadOnly {
			fmt.Fprintln(w, "Mode:\tguest (read-only)")
		}
		if st.Session.Role() == models.RoleStudent {
			fmt.Fprintf(w, "Stage:\t%s\n", st.Progress.CurrentStage.Humanize())
			fmt.Fprintf(w, "Next:\t%s\n", st.Progress.ActionLabel)
		}
		if st.TokenExpiry != nil {
			fmt.Fprintf(w, "Token expires:\t%s\n", st.TokenExpiry.Local().Format("2006-01-02 15:04:05"))
		}
	})
}

func cmdSignup(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("signup")
	role := fs.String("role", "", "student or supervisor")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	matric := fs.String("matric", "", "matric number, students only")
	staffID := fs.String("staff-id", "", "staff id, supervisors only")
	department := fs.String("department", "Computer Science", "department")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *role != string(models.RoleStudent) && *role != string(models.RoleSupervisor) {
		fmt.Fprintln(fs.Output(), "signup: -role must be student or supervisor")
		return errUsage
	}
	password, err := c.promptPassword()
	if err != nil {
		return err
	}

	if *role == string(models.RoleStudent) {
		err = c.portal.Signup.Student(ctx, &services.StudentSignupRequest{
			FullName:   *name,
			MatricNo:   *matric,
			Email:      *email,
			Department: *department,
			Password:   password,
		})
	} else {
		err = c.portal.Signup.Supervisor(ctx, &services.SupervisorSignupRequest{
			FullName:   *name,
			StaffID:    *staffID,
			Email:      *email,
			Department: *department,
			Password:   password,
		})
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Account created. Run `unitrack login` to sign in.")
	return nil
}

// --- student ---

func cmdCreateProject(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("create-project")
	title := fs.String("title", "", "project title")
	description := fs.String("description", "", "project description")
	if err := parse(fs, args); err != nil {
		return err
	}

	p, err := c.portal.Projects.Create(ctx, &services.CreateProjectRequest{Title: *title, Description: *description})
	if err != nil {
		return err
	}
	return c.emit(p, func(w io.Writer) {
		fmt.Fprintf(w, "Created project #%d %q.\n", p.ID, p.Title)
		fmt.Fprintf(w, "Next: upload your %s with `unitrack submit -file <path>`.\n", c.portal.Progress.CurrentStage().Humanize())
	})
}

func cmdProject(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("project")
	id := fs.Int64("id", 0, "project to review (supervisors)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id > 0 {
		detail, err := c.portal.Reviews.Detail(ctx, *id)
		if err != nil {
			return err
		}
		return c.emit(detail, func(w io.Writer) { printReview(w, detail) })
	}

	p, err := c.portal.Projects.Current(ctx)
	if err != nil {
		return err
	}
	progress := c.portal.Progress.Snapshot()
	if p == nil {
		return c.emit(nil, func(w io.Writer) {
			fmt.Fprintln(w, "No project yet. Run `unitrack create-project` to start.")
		})
	}
	return c.emit(struct {
		Project  *models.Project     `json:"project"`
		Progress store.ProgressState `json:"progress"`
	}{p, progress}, func(w io.Writer) {
		fmt.Fprintf(w, "Project:\t#%d %s\n", p.ID, p.Title)
		fmt.Fprintf(w, "Status:\t%s\n", p.Status)
		fmt.Fprintf(w, "Stage:\t%s\n", progress.CurrentStage.Humanize())
		fmt.Fprintf(w, "Next:\t%s\n", progress.ActionLabel)
	})
}

func printReview(w io.Writer, d *services.ProjectReview) {
	fmt.Fprintf(w, "Project:\t#%d %s\n", d.Project.ID, d.Project.Title)
	fmt.Fprintf(w, "Status:\t%s\n", d.Project.Status)
	if b := d.Review.RejectionBanner; b != nil {
		fmt.Fprintf(w, "Rejected:\tversion %d: %s\n", b.Version, b.Comment)
	}
	if d.Review.Reviewable {
		fmt.Fprintln(w, "Review:\tawaiting your decision (approve / reject)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "MILESTONE\tVERSIONS\tLATEST\tSTATUS")
	for _, step := range d.Timeline {
		if step.Latest == nil {
			fmt.Fprintf(w, "%s\t0\t-\t-\n", step.Milestone.Humanize())
			continue
		}
		fmt.Fprintf(w, "%s\t%d\tv%d\t%s\n", step.Milestone.Humanize(), step.Versions, step.Latest.Version, submissionStatus(*step.Latest))
	}
}

func cmdProjects(ctx context.Context, c *cli, args []string) error {
	if err := parse(c.flags("projects"), args); err != nil {
		return err
	}
	list, err := c.portal.Projects.List(ctx)
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS")
		for _, p := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Title, p.Status)
		}
	})
}

func cmdSubmit(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("submit")
	path := fs.String("file", "", "document to upload")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *path == "" {
		return missing(fs, "file")
	}
	upload, closeFile, err := openUpload(*path)
	if err != nil {
		return err
	}
	defer closeFile()

	if err := c.restoreProgress(ctx); err != nil {
		return err
	}
	sub, err := c.portal.Projects.SubmitCurrent(ctx, upload)
	if err != nil {
		return err
	}
	progress := c.portal.Progress.Snapshot()
	return c.emit(sub, func(w io.Writer) {
		fmt.Fprintf(w, "Submitted %s (version %d).\n", sub.Milestone.Humanize(), sub.Version)
		fmt.Fprintf(w, "Next: %s\n", progress.ActionLabel)
	})
}

func cmdResubmit(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("resubmit")
	milestone := fs.String("milestone", "", "rejected milestone, e.g. proposal or chapter_two")
	path := fs.String("file", "", "document to upload")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *path == "" {
		return missing(fs, "file")
	}
	upload, closeFile, err := openUpload(*path)
	if err != nil {
		return err
	}
	defer closeFile()

	if err := c.restoreProgress(ctx); err != nil {
		return err
	}
	sub, err := c.portal.Projects.Resubmit(ctx, models.Milestone(*milestone), upload)
	if err != nil {
		return err
	}
	return c.emit(sub, func(w io.Writer) {
		fmt.Fprintf(w, "Resubmitted %s (version %d).\n", sub.Milestone.Humanize(), sub.Version)
	})
}

func cmdSubmissions(ctx context.Context, c *cli, args []string) error {
	if err := parse(c.flags("submissions"), args); err != nil {
		return err
	}
	subs, err := c.portal.Projects.Submissions(ctx)
	if err != nil {
		return err
	}
	return c.emit(subs, func(w io.Writer) {
		fmt.Fprintln(w, "MILESTONE\tVERSION\tSTATUS\tSUBMITTED\tCOMMENT")
		for _, s := range subs {
			comment := s.RejectionComment
			if comment == "" {
				comment = "-"
			}
			fmt.Fprintf(w, "%s\tv%d\t%s\t%s\t%s\n", s.Milestone.Humanize(), s.Version, submissionStatus(s), s.SubmittedAt.Format("2006-01-02"), comment)
		}
	})
}

// --- review ---

func cmdApprove(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("approve")
	id := fs.Int64("project", 0, "project id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return missing(fs, "project")
	}
	detail, err := c.portal.Reviews.Approve(ctx, *id)
	if err != nil {
		return err
	}
	return c.emit(detail, func(w io.Writer) {
		fmt.Fprintln(w, "Proposal approved.")
		printReview(w, detail)
	})
}

func cmdReject(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("reject")
	id := fs.Int64("project", 0, "project id")
	comment := fs.String("comment", "", "reason for rejection")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return missing(fs, "project")
	}
	detail, err := c.portal.Reviews.Reject(ctx, *id, &services.RejectRequest{Comment: *comment})
	if err != nil {
		return err
	}
	return c.emit(detail, func(w io.Writer) {
		fmt.Fprintln(w, "Proposal rejected.")
		printReview(w, detail)
	})
}

// --- admin ---

func printSupervisors(w io.Writer, list []models.Supervisor) {
	fmt.Fprintln(w, "ID\tNAME\tSTAFF ID\tEMAIL\tAPPROVED\tFULL")
	for _, s := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%t\n", s.ID, s.FullName, s.StaffID, s.Email, s.IsApproved, s.IsFullyBooked)
	}
}

func printStudents(w io.Writer, list []models.Student) {
	fmt.Fprintln(w, "ID\tNAME\tMATRIC NO\tEMAIL\tSUPERVISOR")
	for _, s := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.FullName, s.MatricNo, s.Email, supervisorName(s.Supervisor))
	}
}

func cmdPending(ctx context.Context, c *cli, args []string) error {
	if err := parse(c.flags("pending"), args); err != nil {
		return err
	}
	list, err := c.portal.Admin.PendingSupervisors(ctx)
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) { printSupervisors(w, list) })
}

func cmdApproveSupervisor(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("approve-supervisor")
	id := fs.Int64("id", 0, "supervisor id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return missing(fs, "id")
	}
	if err := c.portal.Admin.ApproveSupervisor(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Supervisor %d approved.\n", *id)
	return nil
}

func cmdSupervisors(ctx context.Context, c *cli, args []string) error {
	if err := parse(c.flags("supervisors"), args); err != nil {
		return err
	}
	list, err := c.portal.Admin.Supervisors(ctx)
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) { printSupervisors(w, list) })
}

func cmdStudents(ctx context.Context, c *cli, args []string) error {
	if err := parse(c.flags("students"), args); err != nil {
		return err
	}
	list, err := c.portal.Admin.Students(ctx)
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) { printStudents(w, list) })
}

func cmdAssigned(ctx context.Context, c *cli, args []string) error {
	if err := parse(c.flags("assigned"), args); err != nil {
		return err
	}
	list, err := c.portal.Admin.AssignedStudents(ctx)
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) { printStudents(w, list) })
}

func cmdAssign(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("assign")
	supervisorID := fs.Int64("supervisor", 0, "supervisor id")
	students := fs.String("students", "", "comma separated student ids")
	if err := parse(fs, args); err != nil {
		return err
	}
	ids, err := parseIDs(*students)
	if err != nil {
		fmt.Fprintf(fs.Output(), "assign: %v\n", err)
		return errUsage
	}

	for _, id := range ids {
		selected, err := c.portal.Admin.ToggleStudent(id)
		if err != nil {
			return err
		}
		if !selected {
			c.portal.Admin.ClearSelection()
			return fmt.Errorf("at most %d students can be assigned at once", services.MaxSelectedStudents)
		}
	}
	res, err := c.portal.Admin.Assign(ctx, &services.AssignRequest{SupervisorID: *supervisorID})
	if err != nil {
		return err
	}
	return c.emit(res, func(w io.Writer) { fmt.Fprintln(w, res.Message) })
}

// --- supervisor ---

func cmdMyStudents(ctx context.Context, c *cli, args []string) error {
	if err := parse(c.flags("my-students"), args); err != nil {
		return err
	}
	u := c.portal.Users.Snapshot().User
	if u == nil {
		return errors.New("not signed in")
	}
	list, err := c.portal.Supervisors.Students(ctx, u.ID)
	if err != nil {
		return err
	}
	return c.emit(list, func(w io.Writer) { printStudents(w, list) })
}

func cmdStudent(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("student")
	id := fs.Int64("id", 0, "student id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return missing(fs, "id")
	}
	s, err := c.portal.Students.Profile(ctx, *id)
	if err != nil {
		return err
	}
	return c.emit(s, func(w io.Writer) {
		fmt.Fprintf(w, "Name:\t%s\n", s.FullName)
		fmt.Fprintf(w, "Matric no:\t%s\n", s.MatricNo)
		fmt.Fprintf(w, "Email:\t%s\n", s.Email)
		fmt.Fprintf(w, "Department:\t%s\n", s.Department)
		fmt.Fprintf(w, "Supervisor:\t%s\n", supervisorName(s.Supervisor))
	})
}

func cmdRejectStudent(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("reject-student")
	id := fs.Int64("id", 0, "student id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return missing(fs, "id")
	}
	if err := c.portal.Supervisors.RejectStudent(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Student %d removed from your list.\n", *id)
	return nil
}

// --- academic session ---

func printSession(w io.Writer, s *models.AcademicSession) {
	fmt.Fprintf(w, "Session:\t%s\n", s.Session)
	fmt.Fprintf(w, "Duration:\t%s\n", s.Duration)
	fmt.Fprintf(w, "Runs:\t%s to %s\n", s.StartDate, s.EndDate)
}

func cmdSession(ctx context.Context, c *cli, args []string) error {
	if err := parse(c.flags("session"), args); err != nil {
		return err
	}
	s, err := c.portal.Sessions.Fetch(ctx)
	if err != nil {
		return err
	}
	return c.emit(s, func(w io.Writer) {
		if s == nil {
			fmt.Fprintln(w, "No academic session has been set up.")
			return
		}
		printSession(w, s)
	})
}

func cmdCreateSession(ctx context.Context, c *cli, args []string) error {
	fs := c.flags("create-session")
	session := fs.String("session", "", "session name, e.g. 2024/2025")
	duration := fs.String("duration", "", "duration, e.g. 1 year")
	start := fs.String("start", "", "start date (YYYY-MM-DD)")
	end := fs.String("end", "", "end date (YYYY-MM-DD)")
	if err := parse(fs, args); err != nil {
		return err
	}

	s, err := c.portal.Sessions.Create(ctx, &services.CreateSessionRequest{
		Session:   *session,
		Duration:  *duration,
		StartDate: *start,
		EndDate:   *end,
	})
	if err != nil {
		return err
	}
	return c.emit(s, func(w io.Writer) {
		fmt.Fprintln(w, "Academic session created.")
		printSession(w, s)
	})
}

func cmdConfig(_ context.Context, c *cli, args []string) error {
	fs := c.flags("config")
	path := fs.String("out", "config.yaml", "file to write")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := c.cfg.Save(*path); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Configuration written to %s.\n", *path)
	return nil
}
