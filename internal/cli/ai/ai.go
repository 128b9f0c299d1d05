package ai

import (
	"context"
	"strings"

	"github.com/julianstephens/habitflow/internal/cli"
)

type AICmd struct {
	Suggest   SuggestCmd   `cmd:"" help:"Ask the AI coach for habits about a topic and add them."`
	Insight   InsightCmd   `cmd:"" help:"Get a short coaching message about your habits."`
	Nutrition NutritionCmd `cmd:"" help:"Estimate the nutrition of a meal description."`
}

type SuggestCmd struct {
	Topic []string `arg:"" help:"Topic, e.g. \"better sleep\"."`
}

func (c *SuggestCmd) Run(ctx *cli.Context) error {
	topic := strings.Join(c.Topic, " ")
	added, err := ctx.Service.AddSuggestedHabits(context.Background(), topic)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		ctx.Println("No suggestions available right now.")
		return nil
	}
	ctx.Printf("Added %d habits related to %q:\n", len(added), strings.TrimSpace(topic))
	for _, h := range added {
		ctx.Printf("  %s  %s (%s)\n", cli.ShortID(h.ID), h.Title, h.Frequency)
	}
	return nil
}

type InsightCmd struct{}

func (c *InsightCmd) Run(ctx *cli.Context) error {
	u, err := ctx.Service.RequireUser()
	if err != nil {
		return err
	}
	msg, err := ctx.Service.Insight(context.Background(), u.ID)
	if err != nil {
		return err
	}
	ctx.Println(msg)
	return nil
}

type NutritionCmd struct {
	Meal []string `arg:"" help:"Free-text meal description."`
}

func (c *NutritionCmd) Run(ctx *cli.Context) error {
	n := ctx.Service.Nutrition(context.Background(), strings.Join(c.Meal, " "))
	if n == nil {
		ctx.Println("No nutrition estimate available.")
		return nil
	}
	ctx.Printf("%s\n", n.MealName)
	ctx.Printf("  calories: %.0f kcal\n", n.Calories)
	ctx.Printf("  protein:  %.1f g\n", n.Protein)
	ctx.Printf("  carbs:    %.1f g\n", n.Carbs)
	ctx.Printf("  fat:      %.1f g\n", n.Fat)
	ctx.Printf("\n%s\n", n.Summary)
	return nil
}
