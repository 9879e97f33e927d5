package integrity

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultClientTimeout = 10 * time.Second

// Client talks to the LearnSphere API on behalf of a signed-in student.
type Client struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultClientTimeout
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	agent := fiber.Post(strings.TrimSuffix(c.BaseURL, "/") + path)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+c.Token)
	agent.JSON(body)
	agent.Timeout(c.timeout())
	if err := agent.Parse(); err != nil {
		return 0, nil, errors.Wrap(err, "prepare request")
	}

	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, errors.Wrapf(errs[0], "POST %s", path)
	}
	return code, respBody, nil
}

func statusError(code int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return errors.Errorf("status %d: %s", code, apiErr.Error)
	}
	return errors.Errorf("status %d", code)
}

func (c *Client) ReportActivity(ctx context.Context, testID, userID uuid.UUID, activity string) error {
	code, body, err := c.post(ctx, "/api/tests/log-suspicious-activity", fiber.Map{
		"testId":   testID,
		"userId":   userID,
		"activity": activity,
	})
	if err != nil {
		return err
	}
	if code != fiber.StatusOK {
		return statusError(code, body)
	}
	return nil
}

func (c *Client) SubmitTest(ctx context.Context, testID uuid.UUID, answers []string) (*Result, error) {
	if answers == nil {
		answers = []string{}
	}
	code, body, err := c.post(ctx, "/api/tests/"+testID.String()+"/submit", fiber.Map{"answers": answers})
	if err != nil {
		return nil, err
	}
	if code != fiber.StatusOK {
		return nil, statusError(code, body)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(err, "decode submit response")
	}
	return &result, nil
}
