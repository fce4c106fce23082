package catalog

import (
	"fmt"

	"github.com/alexanderramin/pcam/internal/domain"
)

const (
	NameDefault = "default"
	NameClassic = "classic"
)

// cells builds a descriptor map in category declaration order.
func cells(vishama, tikshna, manda, sama Descriptor) map[domain.Category]Descriptor {
	return map[domain.Category]Descriptor{
		domain.CategoryVishama: vishama,
		domain.CategoryTikshna: tikshna,
		domain.CategoryManda:   manda,
		domain.CategorySama:    sama,
	}
}

// unit is a weight-1 descriptor labelled by its category.
func unit(c domain.Category, text string) Descriptor {
	return Descriptor{Label: c.ShortLabel(), Text: text, Weight: 1}
}

// Default is the eight-parameter matrix with every descriptor weighted 1.
func Default() *Catalog {
	v, t, m, s := domain.CategoryVishama, domain.CategoryTikshna, domain.CategoryManda, domain.CategorySama
	return MustNew(NameDefault, []Parameter{
		{
			ID: "hunger", Label: "Hunger Patterns", Description: "Regularity and intensity of appetite",
			Descriptors: cells(
				unit(v, "Irregular, unpredictable appetite that varies day to day"),
				unit(t, "Frequent excessive hunger, burns like fire when hungry"),
				unit(m, "Poor, delayed or absent hunger sensation"),
				unit(s, "Timely, appropriate hunger at regular intervals"),
			),
		},
		{
			ID: "digestion", Label: "Digestion Timing", Description: "Speed of food processing",
			Descriptors: cells(
				unit(v, "Alternating fast and slow digestion, unpredictable"),
				unit(t, "Very rapid digestion, food processes quickly"),
				unit(m, "Very slow, sluggish digestion taking hours"),
				unit(s, "Comfortable, timely digestion (3-4 hours)"),
			),
		},
		{
			ID: "stool", Label: "Stool Formation", Description: "Bowel movement characteristics",
			Descriptors: cells(
				unit(v, "Constipation alternating with loose stools, irregular"),
				unit(t, "Loose, burning, frequent stools with urgency"),
				unit(m, "Constipated, sticky, mucoid, heavy stools"),
				unit(s, "Well-formed, regular daily stools without discomfort"),
			),
		},
		{
			ID: "bloating", Label: "Bloating/Discomfort", Description: "Post-meal digestive symptoms",
			Descriptors: cells(
				unit(v, "Gas, bloating, cramping, erratic abdominal symptoms"),
				unit(t, "Burning sensation, acidity, heat in stomach"),
				unit(m, "Heavy, sluggish feeling, fullness for hours"),
				unit(s, "No significant discomfort, light feeling after eating"),
			),
		},
		{
			ID: "appetite", Label: "Appetite Response", Description: "Changes in hunger patterns",
			Descriptors: cells(
				unit(v, "Appetite varies with stress, weather, emotions"),
				unit(t, "Quick return of hunger after eating, can't skip meals"),
				unit(m, "Long periods without hunger, eating by routine only"),
				unit(s, "Stable appetite, can skip meals without distress"),
			),
		},
		{
			ID: "tongue", Label: "Tongue Coating", Description: "Physical examination findings",
			Descriptors: cells(
				unit(v, "Dry, rough, cracked tongue with variable coating"),
				unit(t, "Red, inflamed tongue with yellow/greenish coating"),
				unit(m, "Thick white coating, swollen, pale tongue"),
				unit(s, "Pink, clean tongue with minimal clear coating"),
			),
		},
		{
			ID: "afterfood", Label: "After Food Sensation", Description: "Post-prandial feelings",
			Descriptors: cells(
				unit(v, "Sometimes energetic, sometimes tired after eating"),
				unit(t, "Initially satisfied but quickly becomes hungry again"),
				unit(m, "Heavy, lethargic, sleepy for hours after eating"),
				unit(s, "Light, content, energetic feeling after meals"),
			),
		},
		{
			ID: "weight", Label: "Weight Changes", Description: "Metabolic indicators",
			Descriptors: cells(
				unit(v, "Weight fluctuates frequently, difficulty maintaining"),
				unit(t, "Can lose weight easily, high metabolism"),
				unit(m, "Tendency to gain weight, difficult to lose weight"),
				unit(s, "Stable weight, easy to maintain ideal weight"),
			),
		},
	}, Thresholds{MildMax: 4, ModerateMax: 6})
}

// Classic is the six-parameter questionnaire. Core digestive parameters
// weigh 2, thirst and cravings weigh 1, and the balanced answer weighs 0.
func Classic() *Catalog {
	return MustNew(NameClassic, []Parameter{
		{
			ID: "hunger", Label: "Hunger Patterns", Description: "Assessment of appetite and hunger patterns",
			Descriptors: cells(
				Descriptor{"Irregular/Variable", "Appetite varies greatly - sometimes very hungry, sometimes no appetite at all. Unpredictable hunger patterns.", 2},
				Descriptor{"Excessive/Intense", "Always very hungry, strong appetite, gets angry or irritable when hungry. Cannot skip meals.", 2},
				Descriptor{"Poor/Weak", "Little to no appetite, rarely feels hungry, has to force themselves to eat.", 2},
				Descriptor{"Balanced/Regular", "Healthy appetite at regular meal times, feels satisfied after eating, no extreme hunger or lack of appetite.", 0},
			),
		},
		{
			ID: "digestion", Label: "Digestion Process", Description: "How food is digested and processed",
			Descriptors: cells(
				Descriptor{"Irregular/Unpredictable", "Digestion varies - sometimes quick, sometimes slow. Alternating constipation and loose stools.", 2},
				Descriptor{"Too Fast/Intense", "Food digests very quickly, frequent hunger soon after eating, tendency towards loose stools or diarrhea.", 2},
				Descriptor{"Slow/Sluggish", "Food sits heavy in stomach for long time, slow digestion, tendency towards constipation.", 2},
				Descriptor{"Optimal/Balanced", "Food digests at appropriate pace, comfortable feeling after meals, regular elimination.", 0},
			),
		},
		{
			ID: "stool", Label: "Elimination Patterns", Description: "Bowel movement characteristics and patterns",
			Descriptors: cells(
				Descriptor{"Irregular/Variable", "Inconsistent - sometimes constipated, sometimes loose. Unpredictable timing and consistency.", 2},
				Descriptor{"Frequent/Loose", "Multiple bowel movements per day, tendency towards loose stools or diarrhea, urgency.", 2},
				Descriptor{"Infrequent/Hard", "Constipation, hard or dry stools, difficulty passing, less than once daily.", 2},
				Descriptor{"Regular/Normal", "Once or twice daily, well-formed stools, easy passage, consistent timing.", 0},
			),
		},
		{
			ID: "energy", Label: "Energy After Eating", Description: "How you feel after meals in terms of energy",
			Descriptors: cells(
				Descriptor{"Unpredictable/Variable", "Sometimes energized, sometimes very tired after eating. Energy levels fluctuate unpredictably.", 2},
				Descriptor{"Initial Boost then Crash", "Feel energized immediately after eating but then experience energy crash or need to eat again soon.", 2},
				Descriptor{"Heavy/Lethargic", "Feel tired, heavy, or sluggish after eating. Want to sleep or rest after meals.", 2},
				Descriptor{"Sustained Energy", "Feel satisfied and have steady energy for 3-4 hours after eating. No extreme tiredness or hyperactivity.", 0},
			),
		},
		{
			ID: "thirst", Label: "Thirst Patterns", Description: "Water consumption and thirst patterns",
			Descriptors: cells(
				Descriptor{"Irregular/Forgetful", "Sometimes very thirsty, sometimes forget to drink. Irregular patterns of water consumption.", 1},
				Descriptor{"Excessive/Frequent", "Always thirsty, drinks large quantities of water, prefers cold drinks.", 1},
				Descriptor{"Little/Infrequent", "Rarely feels thirsty, drinks small amounts, prefers warm drinks.", 1},
				Descriptor{"Balanced/Appropriate", "Natural thirst, drinks appropriate amounts of water throughout the day.", 0},
			),
		},
		{
			ID: "cravings", Label: "Food Cravings", Description: "Types of foods you crave or prefer",
			Descriptors: cells(
				Descriptor{"Changeable/Inconsistent", "Cravings change frequently, sometimes want sweet, sometimes salty, sometimes no cravings at all.", 1},
				Descriptor{"Spicy/Cold/Sweet", "Crave spicy foods, cold drinks, ice cream, sweets. Want cooling and sweet foods.", 1},
				Descriptor{"Heavy/Sweet/Fatty", "Crave heavy, oily, sweet, or rich foods. Want comfort foods and dairy products.", 1},
				Descriptor{"Balanced/Moderate", "Enjoy variety of foods, no extreme cravings, satisfied with balanced meals.", 0},
			),
		},
	}, Thresholds{MildMax: 3, ModerateMax: 6})
}

// Builtin returns a built-in catalog by name.
func Builtin(name string) (*Catalog, error) {
	switch name {
	case "", NameDefault:
		return Default(), nil
	case NameClassic:
		return Classic(), nil
	default:
		return nil, fmt.Errorf("unknown built-in catalog %q", name)
	}
}
